package sensor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/alarm-api/internal/apperr"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/sensors", h.ListSensors)
	r.GET("/sensors/:id", h.GetSensor)
	r.POST("/sensors", h.CreateSensor)
	r.PUT("/sensors/:id", h.UpdateSensor)
	r.DELETE("/sensors/:id", h.DeleteSensor)
}

// helper ambil id sensor dari path
func parseSensorID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apperr.Respond(c, nil, apperr.Invalid("id", "must be a valid UUID"))
		return "", false
	}
	return id, true
}

func (h *Handler) ListSensors(c *gin.Context) {
	sensors, err := h.svc.List(c.Request.Context(), true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sensors)
}

func (h *Handler) GetSensor(c *gin.Context) {
	id, ok := parseSensorID(c)
	if !ok {
		return
	}
	sensor, err := h.svc.Get(c.Request.Context(), id, true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sensor)
}

func (h *Handler) CreateSensor(c *gin.Context) {
	var req CreateSensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.BadRequest("invalid JSON body"))
		return
	}

	sensor, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, sensor)
}

func (h *Handler) UpdateSensor(c *gin.Context) {
	id, ok := parseSensorID(c)
	if !ok {
		return
	}

	var req UpdateSensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.BadRequest("invalid JSON body"))
		return
	}

	sensor, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sensor)
}

func (h *Handler) DeleteSensor(c *gin.Context) {
	id, ok := parseSensorID(c)
	if !ok {
		return
	}
	if _, err := h.svc.Remove(c.Request.Context(), id); err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}
