package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/username/alarm-api/internal/alarm"
	"github.com/username/alarm-api/internal/auth"
	"github.com/username/alarm-api/internal/config"
	mw "github.com/username/alarm-api/internal/middleware"
	"github.com/username/alarm-api/internal/sensor"
	"github.com/username/alarm-api/internal/storage"
	"github.com/username/alarm-api/internal/user"
	"github.com/username/alarm-api/internal/visualization"
)

// NewRouter wires every component behind the global auth guard.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(mw.RequestLogger(log), mw.Recovery(log))
	router.Use(mw.CORSMiddleware(cfg.CORS.AllowedOrigins))

	// the guard is global and installed before any route, so new routes are
	// protected unless they are added to the public list
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	router.Use(auth.Guard(tokens, auth.DefaultPublicRoutes(cfg.Uploads.PublicPrefix)))

	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// uploaded images, served from disk under the same prefix their path carries
	router.Static(cfg.Uploads.PublicPrefix, cfg.Uploads.Dir)

	authSvc := auth.NewService(user.NewRepository(db), tokens, cfg.Auth.BcryptCost)
	auth.NewHandler(authSvc, log).RegisterRoutes(router)

	sensors := sensor.NewService(db)
	sensor.NewHandler(sensors, log).RegisterRoutes(router)

	alarms := alarm.NewService(db, sensors)
	alarm.NewHandler(alarms, log).RegisterRoutes(router)

	blobs := storage.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.PublicPrefix)
	visualizations := visualization.NewService(db, alarms, blobs, cfg.Uploads.MaxBytes, log)
	visualization.NewHandler(visualizations, log).RegisterRoutes(router)

	return router
}
