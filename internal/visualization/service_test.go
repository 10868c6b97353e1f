package visualization_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/alarm"
	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/sensor"
	"github.com/username/alarm-api/internal/storage"
	"github.com/username/alarm-api/internal/testutil"
	"github.com/username/alarm-api/internal/visualization"
)

const missingID = "7b0c1c1e-7a43-4b52-9d1f-3f0f6b7c2a11"

type fixture struct {
	db      *gorm.DB
	root    string
	alarmID string
	svc     *visualization.Service
}

func newFixture(t *testing.T, maxBytes int64) fixture {
	db := testutil.OpenDB(t)
	sensors := sensor.NewService(db)
	alarms := alarm.NewService(db, sensors)

	ctx := context.Background()
	s, err := sensors.Create(ctx, sensor.CreateSensorRequest{Name: "Hall Sensor", Location: "Main Hall"})
	require.NoError(t, err)
	a, err := alarms.Create(ctx, alarm.CreateAlarmRequest{Type: alarm.TypeMotion, SensorID: s.ID})
	require.NoError(t, err)

	root := t.TempDir()
	store := storage.NewDiskStore(root, "/uploads")
	return fixture{
		db:      db,
		root:    root,
		alarmID: a.ID,
		svc:     visualization.NewService(db, alarms, store, maxBytes, zap.NewNop()),
	}
}

func pngBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(name string, data []byte) visualization.Upload {
	return visualization.Upload{Filename: name, Size: int64(len(data)), Content: bytes.NewReader(data)}
}

func (f fixture) rows(t *testing.T) int64 {
	var n int64
	require.NoError(t, f.db.Model(&visualization.Visualization{}).Count(&n).Error)
	return n
}

func (f fixture) files(t *testing.T) []os.DirEntry {
	entries, err := os.ReadDir(filepath.Join(f.root, "visualizations"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestService_CreatePNG(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.alarmID, upload("Front Door.PNG", pngBytes(t)))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(v.Filename, ".png"))
	assert.Equal(t, "/uploads/visualizations/"+v.Filename, v.Path)
	assert.Equal(t, f.alarmID, v.AlarmID)
	assert.False(t, v.UploadedAt.IsZero())

	stored, err := os.ReadFile(filepath.Join(f.root, "visualizations", v.Filename))
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), stored)

	got, err := f.svc.Get(ctx, v.ID, true)
	require.NoError(t, err)
	require.NotNil(t, got.Alarm)
	assert.Equal(t, f.alarmID, got.Alarm.ID)

	list, err := f.svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_CreateRejectsBadUploads(t *testing.T) {
	f := newFixture(t, 1024)
	ctx := context.Background()

	gif := append([]byte("GIF89a"), make([]byte, 32)...)
	cases := map[string]visualization.Upload{
		"gif extension":   upload("alarm.gif", gif),
		"text as png":     upload("alarm.png", []byte("definitely not an image")),
		"empty":           upload("alarm.jpg", nil),
		"declared size":   {Filename: "alarm.png", Size: 4096, Content: bytes.NewReader(pngBytes(t))},
		"undeclared size": {Filename: "alarm.png", Size: 10, Content: bytes.NewReader(append(pngBytes(t), make([]byte, 2048)...))},
	}
	for name, u := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.alarmID, u)
			assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
		})
	}

	assert.Zero(t, f.rows(t))
	assert.Empty(t, f.files(t))
}

func TestService_CreateUnknownAlarm(t *testing.T) {
	f := newFixture(t, 0)

	_, err := f.svc.Create(context.Background(), missingID, upload("a.png", pngBytes(t)))
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	assert.Zero(t, f.rows(t))
	assert.Empty(t, f.files(t))
}

func TestService_FailedInsertRemovesBlob(t *testing.T) {
	f := newFixture(t, 0)

	// the blob is written, then the metadata insert fails
	require.NoError(t, f.db.Migrator().DropTable("visualizations"))

	_, err := f.svc.Create(context.Background(), f.alarmID, upload("a.png", pngBytes(t)))
	require.Error(t, err)
	assert.False(t, apperr.Is(err, apperr.CodeValidation))
	assert.Empty(t, f.files(t))
}

func TestService_DeleteRemovesBlob(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.alarmID, upload("a.jpg", jpegHeader()))
	require.NoError(t, err)
	require.Len(t, f.files(t), 1)

	require.NoError(t, f.svc.Delete(ctx, v.ID))
	assert.Zero(t, f.rows(t))
	assert.Empty(t, f.files(t))

	assert.True(t, apperr.Is(f.svc.Delete(ctx, v.ID), apperr.CodeNotFound))
	_, err = f.svc.Get(ctx, v.ID, false)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

// jpegHeader is enough of a JFIF file for content sniffing.
func jpegHeader() []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 64)...)
}
