package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
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
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.GET("/auth/profile", h.Profile)
}

func (h *Handler) Register(c *gin.Context) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.BadRequest("invalid JSON body"))
		return
	}

	sess, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}

	h.log.Info("user registered", zap.String("user_id", sess.User.ID), zap.String("username", sess.User.Username))
	c.JSON(http.StatusCreated, sess)
}

// Login answers 201 like register; both hand out a new token.
func (h *Handler) Login(c *gin.Context) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.log, apperr.BadRequest("invalid JSON body"))
		return
	}

	sess, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		if apperr.Is(err, apperr.CodeUnauthorized) {
			h.log.Warn("login failed", zap.String("username", req.Username))
		}
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *Handler) Profile(c *gin.Context) {
	cu, ok := GetCurrentUser(c)
	if !ok {
		apperr.Respond(c, h.log, apperr.Unauthorized("not authenticated"))
		return
	}

	p, err := h.svc.Profile(c.Request.Context(), cu.ID)
	if err != nil {
		apperr.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
