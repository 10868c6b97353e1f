package sensor_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/alarm-api/internal/sensor"
	"github.com/username/alarm-api/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) *gin.Engine {
	r := gin.New()
	sensor.NewHandler(sensor.NewService(testutil.OpenDB(t)), zap.NewNop()).RegisterRoutes(r)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_SensorLifecycle(t *testing.T) {
	r := newRouter(t)

	w := doJSON(r, http.MethodPost, "/sensors", map[string]string{"name": "Hall Sensor", "location": "Main Hall"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created["id"].(string)
	assert.Equal(t, []any{}, created["alarms"])

	w = doJSON(r, http.MethodGet, "/sensors/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPut, "/sensors/"+id, map[string]string{"name": "Lobby Sensor"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"location":"Main Hall"`)
	assert.Contains(t, w.Body.String(), `"name":"Lobby Sensor"`)

	w = doJSON(r, http.MethodGet, "/sensors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doJSON(r, http.MethodDelete, "/sensors/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/sensors/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_SensorErrors(t *testing.T) {
	r := newRouter(t)

	w := doJSON(r, http.MethodPost, "/sensors", map[string]string{"name": "ab", "location": "Main Hall"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"details"`)

	w = doJSON(r, http.MethodGet, "/sensors/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, "/sensors/7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPut, "/sensors/7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11", map[string]string{"name": "Garage"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
