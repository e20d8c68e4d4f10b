package handlers

import (
	"github.com/gin-gonic/gin"

	"rbadmin/internal/console"
	"rbadmin/internal/infrastructure/http/v1/dto"
)

// ResourceHandler serves the sidebar and detail pages.
type ResourceHandler struct {
	*BaseHandler
	manager *console.Manager
}

// NewResourceHandler creates a new resource handler.
func NewResourceHandler(base *BaseHandler, manager *console.Manager) *ResourceHandler {
	return &ResourceHandler{BaseHandler: base, manager: manager}
}

// List returns every registered resource in sidebar order.
// GET /api/v1/console/resources
func (h *ResourceHandler) List(c *gin.Context) {
	defs := h.manager.Resources()
	out := make([]dto.ResourceResponse, len(defs))
	for i, def := range defs {
		out[i] = dto.FromResource(def)
	}
	h.OK(c, out)
}

// Detail loads one record. The optional `from` query names the page the admin
// navigated from.
// GET /api/v1/console/resources/:resource/:id
func (h *ResourceHandler) Detail(c *gin.Context) {
	recordID, ok := h.RecordID(c, "id")
	if !ok {
		return
	}

	v, err := h.manager.Detail(c.Request.Context(), c.Param("resource"), recordID, c.Query("from"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, v)
}
