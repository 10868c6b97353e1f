package visualization

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/middleware"
)

// formField is the multipart field carrying the image.
const formField = "image"

type Handler struct {
	svc      *Service
	log      *zap.Logger
	maxBytes int64
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log, maxBytes: svc.maxBytes}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/visualizations", h.ListVisualizations)
	r.GET("/visualizations/:id", h.GetVisualization)
	// multipart framing needs room on top of the file itself
	r.POST("/visualizations/:alarmId", middleware.BodyLimit(h.maxBytes+64<<10), h.UploadVisualization)
	r.DELETE("/visualizations/:id", h.DeleteVisualization)
}

// helper ambil uuid dari path
func parseUUIDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		apperr.Respond(c, nil, apperr.Invalid(name, "must be a valid UUID"))
		return "", false
	}
	return id, true
}

func (h *Handler) ListVisualizations(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetVisualization(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id, true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// UploadVisualization: POST /visualizations/:alarmId, multipart field "image"
func (h *Handler) UploadVisualization(c *gin.Context) {
	alarmID, ok := parseUUIDParam(c, "alarmId")
	if !ok {
		return
	}

	fh, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apperr.Respond(c, h.log, apperr.Invalid(formField, "file too large"))
			return
		}
		apperr.Respond(c, h.log, apperr.Invalid(formField, "is required"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	defer f.Close()

	v, err := h.svc.Create(c.Request.Context(), alarmID, Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	h.log.Info("visualization uploaded",
		zap.String("visualization_id", v.ID),
		zap.String("alarm_id", alarmID),
		zap.Int64("size", fh.Size),
	)
	c.JSON(http.StatusCreated, v)
}

func (h *Handler) DeleteVisualization(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}
