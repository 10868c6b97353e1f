package apperr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/username/alarm-api/internal/apperr"
)

func TestFieldErrors_Err(t *testing.T) {
	fe := apperr.FieldErrors{}
	assert.NoError(t, fe.Err())

	fe.Add("name", "must be at least 3 characters")
	fe.Add("name", "ignored second reason")
	fe.Add("location", "is required")

	err := fe.Err()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Equal(t, "validation failed: location is required; name must be at least 3 characters", err.Error())
}

func TestIs_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading sensor: %w", apperr.NotFound("sensor %s not found", "abc"))
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.False(t, apperr.Is(err, apperr.CodeConflict))
	assert.False(t, apperr.Is(errors.New("plain"), apperr.CodeNotFound))
}

func TestRespond_StatusAndBody(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", apperr.Invalid("limit", "must be between 1 and 100"), http.StatusBadRequest, "validation_error", "validation failed"},
		{"unauthorized", apperr.Unauthorized("invalid token"), http.StatusUnauthorized, "unauthorized", "invalid token"},
		{"conflict", apperr.Conflict("username already exists"), http.StatusConflict, "conflict", "username already exists"},
		{"not found", apperr.NotFound("alarm %s not found", "x"), http.StatusNotFound, "not_found", "alarm x not found"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error", "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			apperr.Respond(c, zap.NewNop(), tc.err)

			require.Equal(t, tc.status, w.Code)
			assert.True(t, c.IsAborted())

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body["error"])
			assert.Equal(t, tc.message, body["message"])
			assert.NotContains(t, w.Body.String(), "connection refused")
		})
	}
}

func TestRespond_IncludesFieldDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/sensors", nil)

	apperr.Respond(c, nil, apperr.Invalid("name", "is required"))

	var body struct {
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "is required", body.Details["name"])
}
