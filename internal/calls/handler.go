package calls

import (
	"bytes"
	"io"
	"net/http"

	"jessica-sub/internal/common/errors"
	"jessica-sub/internal/common/logger"
	"jessica-sub/internal/common/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service    *Service
	config     *Config
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

	log := logger.OrNoOp(opts.Dependencies.Logger).WithFields(map[string]interface{}{"component": "calls"})
	deps := opts.Dependencies
	deps.Logger = log

	return &Handler{
		service:    NewService(deps, cfg),
		config:     cfg,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/calls")
	g.POST("/test", h.PlaceTestCall)
}

// PlaceTestCall places one outbound call through the guard. An empty body
// uses the configured number and first message.
func (h *Handler) PlaceTestCall(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.errHandler.HandleRequestError(c, errors.NewInvalidRequestError(err.Error()))
		return
	}

	var req TestCallRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := validation.Bind(raw, GetTestCallSchema(), &req); err != nil {
			h.errHandler.HandleRequestError(c, err)
			return
		}
	}
	if req.CustomerNumber == "" {
		req.CustomerNumber = h.config.CustomerNumber
	}
	if req.FirstMessage == "" {
		req.FirstMessage = h.config.FirstMessage
	}

	out, err := h.service.Execute(c.Request.Context(), &Input{
		CustomerNumber: req.CustomerNumber,
		FirstMessage:   req.FirstMessage,
		Context:        req.Context,
	})
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
