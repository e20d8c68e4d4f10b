package handlers

import (
	"github.com/gin-gonic/gin"

	"rbadmin/internal/console"
	"rbadmin/internal/core/apperror"
	"rbadmin/internal/core/id"
	"rbadmin/internal/infrastructure/http/v1/dto"
)

// PageHandler drives mounted console pages. Every successful call answers with
// the page view so the shell re-renders from one payload.
type PageHandler struct {
	*BaseHandler
	manager *console.Manager
}

// NewPageHandler creates a new page handler.
func NewPageHandler(base *BaseHandler, manager *console.Manager) *PageHandler {
	return &PageHandler{BaseHandler: base, manager: manager}
}

// page resolves :page, runs fn and renders the view.
func (h *PageHandler) page(c *gin.Context, fn func(p *console.Page) error) {
	p, err := h.manager.Get(c.Param("page"))
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := fn(p); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, p.View())
}

// Mount handles POST /pages.
func (h *PageHandler) Mount(c *gin.Context) {
	var req dto.MountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	p, err := h.manager.Mount(ctx, req.Resource)
	if err != nil {
		if p != nil {
			h.manager.Unmount(ctx, p.ID)
		}
		h.Error(c, err)
		return
	}
	h.Created(c, p.View())
}

// Get handles GET /pages/:page.
func (h *PageHandler) Get(c *gin.Context) {
	h.page(c, func(*console.Page) error { return nil })
}

// Unmount handles DELETE /pages/:page.
func (h *PageHandler) Unmount(c *gin.Context) {
	h.manager.Unmount(c.Request.Context(), c.Param("page"))
	h.NoContent(c)
}

// Refresh handles POST /pages/:page/refresh.
func (h *PageHandler) Refresh(c *gin.Context) {
	h.page(c, func(p *console.Page) error {
		return p.Refresh(c.Request.Context())
	})
}

// Search handles PUT /pages/:page/search.
func (h *PageHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		t.Search(req.Query)
		return nil
	})
}

// Sort handles PUT /pages/:page/sort.
func (h *PageHandler) Sort(c *gin.Context) {
	var req dto.SortRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.Sort(req.Field, req.Direction)
	})
}

// SetPage handles PUT /pages/:page/page.
func (h *PageHandler) SetPage(c *gin.Context) {
	var req dto.PageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		t.SetPage(req.Page)
		return nil
	})
}

// Filter handles PUT /pages/:page/filter. An empty body clears the filter.
func (h *PageHandler) Filter(c *gin.Context) {
	var req dto.FilterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.Filter(req)
	})
}

// OpenPanel handles POST /pages/:page/panel.
func (h *PageHandler) OpenPanel(c *gin.Context) {
	var req dto.PanelRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.OpenPanel(id.ID(req.ID))
	})
}

// EditDraft handles PATCH /pages/:page/panel.
func (h *PageHandler) EditDraft(c *gin.Context) {
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.EditDraft(req.Fields)
	})
}

// SaveDraft handles POST /pages/:page/panel/save.
func (h *PageHandler) SaveDraft(c *gin.Context) {
	var req dto.DraftRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.SaveDraft(c.Request.Context(), req.Fields)
	})
}

// ClosePanel handles DELETE /pages/:page/panel.
func (h *PageHandler) ClosePanel(c *gin.Context) {
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		t.CancelPanel()
		return nil
	})
}

// RequestDelete handles POST /pages/:page/records/:id/delete.
func (h *PageHandler) RequestDelete(c *gin.Context) {
	recordID, ok := h.RecordID(c, "id")
	if !ok {
		return
	}
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		return t.RequestDelete(recordID)
	})
}

// ConfirmDelete handles POST /pages/:page/delete/confirm.
func (h *PageHandler) ConfirmDelete(c *gin.Context) {
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		return t.ConfirmDelete(c.Request.Context())
	})
}

// CancelDelete handles DELETE /pages/:page/delete.
func (h *PageHandler) CancelDelete(c *gin.Context) {
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		t.CancelDelete()
		return nil
	})
}

// Copy handles POST /pages/:page/records/:id/copy.
func (h *PageHandler) Copy(c *gin.Context) {
	recordID, ok := h.RecordID(c, "id")
	if !ok {
		return
	}
	var req dto.CopyRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.Copy(c.Request.Context(), recordID, req.Field)
	})
}

// Select handles POST /pages/:page/select.
func (h *PageHandler) Select(c *gin.Context) {
	var req dto.SelectRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		t, err := p.Table()
		if err != nil {
			return err
		}
		switch {
		case req.Clear:
			t.ClearSelection()
			return nil
		case req.Page:
			return t.SelectPage()
		case req.ID == "":
			return apperror.NewValidation("id, page or clear is required")
		default:
			return t.ToggleSelect(id.ID(req.ID))
		}
	})
}

// Split handles POST /pages/:page/split.
func (h *PageHandler) Split(c *gin.Context) {
	var req dto.SplitRequest
	if !h.BindJSON(c, &req) {
		return
	}
	h.page(c, func(p *console.Page) error {
		return p.Split(c.Request.Context(), req)
	})
}
