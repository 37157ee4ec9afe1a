package activity

import (
	"io"
	"net/http"
	"strconv"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

type HandlerOptions struct {
	CustomConfig *Config
	Dependencies ServiceDependencies
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.OrNoOp(opts.Dependencies.Logger).WithFields(map[string]interface{}{"component": "activity"})
	deps := opts.Dependencies
	deps.Logger = log

	return &Handler{
		service:    NewService(deps, cfg),
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
}

// Service exposes the underlying service so other handlers can share it.
func (h *Handler) Service() *Service {
	return h.service
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/activity")
	g.POST("/log", h.LogActivity)
	g.GET("/list", h.ListActivity)
}

func (h *Handler) LogActivity(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.errHandler.HandleRequestError(c, errors.NewInvalidRequestError(err.Error()))
		return
	}

	var req LogRequest
	if err := validation.Bind(raw, GetLogSchema(), &req); err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}

	if err := h.service.Log(c.Request.Context(), &req); err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) ListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errHandler.HandleRequestError(c, errors.NewValidationFailedError("limit: must be an integer"))
			return
		}
		limit = n
	}

	entries, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
