package alarm

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/username/alarm-api/internal/apperr"
	"github.com/username/alarm-api/internal/pagination"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/alarms", h.ListAlarms)
	r.GET("/alarms/:id", h.GetAlarm)
	r.POST("/alarms", h.CreateAlarm)
	r.DELETE("/alarms/:id", h.DeleteAlarm)
}

// helper ambil id alarm dari path
func parseAlarmID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apperr.Respond(c, nil, apperr.Invalid("id", "must be a valid UUID"))
		return "", false
	}
	return id, true
}

// ListAlarms: GET /alarms?type=&sensorId=&page=&limit=
func (h *Handler) ListAlarms(c *gin.Context) {
	p, ok := pagination.ParsePagination(c)
	if !ok {
		return
	}

	f := Filter{
		Type:     Type(c.Query("type")),
		SensorID: c.Query("sensorId"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	page, err := h.svc.List(c.Request.Context(), f, true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetAlarm(c *gin.Context) {
	id, ok := parseAlarmID(c)
	if !ok {
		return
	}
	a, err := h.svc.Get(c.Request.Context(), id, true)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CreateAlarm(c *gin.Context) {
	var req CreateAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.BadRequest("invalid JSON body"))
		return
	}

	a, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	h.log.Info("alarm raised",
		zap.String("alarm_id", a.ID),
		zap.String("type", string(a.Type)),
		zap.String("sensor_id", a.SensorID),
	)
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) DeleteAlarm(c *gin.Context) {
	id, ok := parseAlarmID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusOK)
}
