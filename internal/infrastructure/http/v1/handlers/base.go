package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body. An empty body binds the zero value.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		if err := binding.Validator.ValidateStruct(obj); err != nil {
			h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
			return false
		}
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error processes error and sends appropriate response.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	h.HandleError(c, err)
}

// HandleError registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// RecordID reads a record identifier path parameter.
func (h *BaseHandler) RecordID(c *gin.Context, key string) (id.ID, bool) {
	v := strings.TrimSpace(c.Param(key))
	if v == "" {
		h.Error(c, apperror.NewValidation("invalid id format").WithDetail("param", key))
		return "", false
	}
	return id.ID(v), true
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
