package vendors

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

	log := logger.OrNoOp(opts.Dependencies.Logger).WithFields(map[string]interface{}{"component": "vendors"})
	deps := opts.Dependencies
	deps.Logger = log

	return &Handler{
		service:    NewService(deps, cfg),
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}, nil
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/vendors")
	g.GET("/", h.ListVendors)
	g.GET("/search", h.SearchVendors)
	g.GET("/:id", h.GetVendor)
	g.POST("/add", h.AddVendor)
	g.POST("/remove", h.RemoveVendor)
}

func (h *Handler) ListVendors(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		h.errHandler.HandleRequestError(c, errors.NewValidationFailedError("user_id: required query parameter"))
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetVendor(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		h.errHandler.HandleRequestError(c, errors.NewValidationFailedError("user_id: required query parameter"))
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		h.errHandler.HandleRequestError(c, errors.NewValidationFailedError("id: must be a positive integer"))
		return
	}

	v, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) SearchVendors(c *gin.Context) {
	results, err := h.service.Search(c.Request.Context(), c.Query("q"), c.Query("user_id"))
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) AddVendor(c *gin.Context) {
	var req AddRequest
	if !h.bind(c, GetAddSchema(), &req) {
		return
	}

	v, err := h.service.Add(c.Request.Context(), &req)
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) RemoveVendor(c *gin.Context) {
	var req RemoveRequest
	if !h.bind(c, GetRemoveSchema(), &req) {
		return
	}

	resp, err := h.service.Remove(c.Request.Context(), &req)
	if err != nil {
		h.errHandler.HandleRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) bind(c *gin.Context, schema validation.JSONSchema, dst interface{}) bool {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.errHandler.HandleRequestError(c, errors.NewInvalidRequestError(err.Error()))
		return false
	}
	if err := validation.Bind(raw, schema, dst); err != nil {
		h.errHandler.HandleRequestError(c, err)
		return false
	}
	return true
}
