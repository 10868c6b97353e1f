package sensor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/sensor"
	"github.com/username/alarm-api/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestService_CreateValidates(t *testing.T) {
	svc := sensor.NewService(testutil.OpenDB(t))
	ctx := context.Background()

	_, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "ab", Location: ""})
	require.Error(t, err)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Contains(t, ae.Fields, "name")
	assert.Contains(t, ae.Fields, "location")

	s, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "  Hall Sensor ", Location: "Main Hall"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Hall Sensor", s.Name)
	assert.NotNil(t, s.Alarms)
}

func TestService_GetIncludesAlarmsNewestFirst(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := sensor.NewService(db)
	ctx := context.Background()

	s, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "Hall Sensor", Location: "Main Hall"})
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&[]sensor.SensorAlarm{
		{ID: "00000000-0000-0000-0000-000000000001", Timestamp: base, Type: "motion", SensorID: s.ID},
		{ID: "00000000-0000-0000-0000-000000000002", Timestamp: base.Add(time.Hour), Type: "smoke", SensorID: s.ID},
	}).Error)

	got, err := svc.Get(ctx, s.ID, true)
	require.NoError(t, err)
	require.Len(t, got.Alarms, 2)
	assert.Equal(t, "smoke", got.Alarms[0].Type)

	bare, err := svc.Get(ctx, s.ID, false)
	require.NoError(t, err)
	assert.Nil(t, bare.Alarms)

	list, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Alarms, 2)
}

func TestService_GetMissing(t *testing.T) {
	svc := sensor.NewService(testutil.OpenDB(t))
	_, err := svc.Get(context.Background(), "7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11", true)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestService_UpdatePartial(t *testing.T) {
	svc := sensor.NewService(testutil.OpenDB(t))
	ctx := context.Background()

	s, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "Hall Sensor", Location: "Main Hall"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, s.ID, sensor.UpdateSensorRequest{Location: strPtr("Back Door")})
	require.NoError(t, err)
	assert.Equal(t, "Hall Sensor", updated.Name)
	assert.Equal(t, "Back Door", updated.Location)

	_, err = svc.Update(ctx, s.ID, sensor.UpdateSensorRequest{Name: strPtr("x")})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = svc.Update(ctx, "7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11", sensor.UpdateSensorRequest{Name: strPtr("Garage")})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestService_RemoveCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := sensor.NewService(db)
	ctx := context.Background()

	s, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "Hall Sensor", Location: "Main Hall"})
	require.NoError(t, err)
	alarmID := "00000000-0000-0000-0000-0000000000aa"
	require.NoError(t, db.Create(&sensor.SensorAlarm{ID: alarmID, Timestamp: time.Now().UTC(), Type: "motion", SensorID: s.ID}).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO visualizations (id, filename, path, uploaded_at, alarm_id) VALUES (?, ?, ?, ?, ?)",
		"00000000-0000-0000-0000-0000000000bb", "a.png", "/uploads/visualizations/a.png", time.Now().UTC(), alarmID,
	).Error)

	removed, err := svc.Remove(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	var alarms, visualizations int64
	require.NoError(t, db.Table("alarms").Count(&alarms).Error)
	require.NoError(t, db.Table("visualizations").Count(&visualizations).Error)
	assert.Zero(t, alarms)
	assert.Zero(t, visualizations)

	removed, err = svc.Remove(ctx, s.ID)
	assert.False(t, removed)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestService_Exists(t *testing.T) {
	svc := sensor.NewService(testutil.OpenDB(t))
	ctx := context.Background()

	s, err := svc.Create(ctx, sensor.CreateSensorRequest{Name: "Hall Sensor", Location: "Main Hall"})
	require.NoError(t, err)

	ok, err := svc.Exists(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, "7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11")
	require.NoError(t, err)
	assert.False(t, ok)
}
