package v1

import (
	"github.com/gin-gonic/gin"
)

// PageRouteHandler defines the interface for console page handlers.
type PageRouteHandler interface {
	Mount(c *gin.Context)
	Get(c *gin.Context)
	Unmount(c *gin.Context)
	Refresh(c *gin.Context)

	Search(c *gin.Context)
	Sort(c *gin.Context)
	SetPage(c *gin.Context)
	Filter(c *gin.Context)

	OpenPanel(c *gin.Context)
	EditDraft(c *gin.Context)
	SaveDraft(c *gin.Context)
	ClosePanel(c *gin.Context)

	RequestDelete(c *gin.Context)
	ConfirmDelete(c *gin.Context)
	CancelDelete(c *gin.Context)

	Copy(c *gin.Context)
	Select(c *gin.Context)
	Split(c *gin.Context)
}

// RegisterPageRoutes registers the page lifecycle and interaction routes.
//
// Usage:
//
//	handler := handlers.NewPageHandler(baseHandler, cfg.Manager)
//	RegisterPageRoutes(console.Group("/pages"), handler)
func RegisterPageRoutes(group *gin.RouterGroup, handler PageRouteHandler) {
	group.POST("", handler.Mount)
	group.GET("/:page", handler.Get)
	group.DELETE("/:page", handler.Unmount)
	group.POST("/:page/refresh", handler.Refresh)

	group.PUT("/:page/search", handler.Search)
	group.PUT("/:page/sort", handler.Sort)
	group.PUT("/:page/page", handler.SetPage)
	group.PUT("/:page/filter", handler.Filter)

	group.POST("/:page/panel", handler.OpenPanel)
	group.PATCH("/:page/panel", handler.EditDraft)
	group.POST("/:page/panel/save", handler.SaveDraft)
	group.DELETE("/:page/panel", handler.ClosePanel)

	group.POST("/:page/records/:id/delete", handler.RequestDelete)
	group.POST("/:page/delete/confirm", handler.ConfirmDelete)
	group.DELETE("/:page/delete", handler.CancelDelete)

	group.POST("/:page/records/:id/copy", handler.Copy)
	group.POST("/:page/select", handler.Select)
	group.POST("/:page/split", handler.Split)
}
