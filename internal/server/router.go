package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"jessica-sub/internal/api/activity"
	"jessica-sub/internal/api/vendors"
	"jessica-sub/internal/calls"
	"jessica-sub/internal/common/config"
	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/observability"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Options carries what the router needs to build the API handlers.
type Options struct {
	Config *config.Config
	DB     *sql.DB
	Cache  redis.Cmdable
	Logger logger.Logger

	// Observability records call metrics; nil disables them.
	Observability *observability.Observability
	// CallCreator replaces the Vapi client built from the config.
	CallCreator calls.CallCreator
}

// New builds the jessica API engine with every route registered.
func New(opts Options) (*gin.Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("server: config is required")
	}
	if opts.DB == nil {
		return nil, fmt.Errorf("server: database is required")
	}
	cfg := opts.Config
	log := logger.OrNoOp(opts.Logger)

	activityHandler, err := activity.NewHandler(activity.HandlerOptions{
		Dependencies: activity.ServiceDependencies{DB: opts.DB, Logger: log},
	})
	if err != nil {
		return nil, fmt.Errorf("activity handler: %w", err)
	}

	vendorCfg := vendors.DefaultConfig()
	vendorCfg.CacheTTL = time.Duration(cfg.Cache.VendorTTL) * time.Second
	vendorHandler, err := vendors.NewHandler(vendors.HandlerOptions{
		CustomConfig: vendorCfg,
		Dependencies: vendors.ServiceDependencies{DB: opts.DB, Cache: opts.Cache, Logger: log},
	})
	if err != nil {
		return nil, fmt.Errorf("vendors handler: %w", err)
	}

	callsHandler, err := calls.NewHandler(calls.HandlerOptions{
		CustomConfig: calls.ConfigFrom(cfg),
		Dependencies: calls.ServiceDependencies{
			Logger:        log,
			Creator:       opts.CallCreator,
			Observability: opts.Observability,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("calls handler: %w", err)
	}

	r := gin.New()
	r.Use(
		RequestID(),
		AccessLog(log),
		Recovery(errors.NewErrorHandler(log)),
		CORS(cfg.Server.AllowedOrigins),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Backend running", "version": cfg.App.Version})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	activityHandler.RegisterRoutes(r)
	vendorHandler.RegisterRoutes(r)
	callsHandler.RegisterRoutes(r)

	return r, nil
}
