package http

import "github.com/gin-gonic/gin"

// Register mounts the REST routes on r
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Workspace selection
	r.GET("/workspace", h.GetWorkspace)
	r.PUT("/workspace", h.SetWorkspace)
	r.DELETE("/workspace", h.ForgetWorkspace)

	// File operations
	r.GET("/files", h.ListFiles)
	r.POST("/files", h.CreateFile)
	r.PUT("/files", h.UpdateFile)
	r.DELETE("/files", h.DeleteFile)
	r.GET("/files/content", h.ReadFile)
	r.POST("/files/open", h.OpenFile)
	r.GET("/files/inspect", h.InspectFile)
	r.GET("/files/preview", h.PreviewFile)
	r.GET("/files/query", h.QueryFile)
	r.GET("/files/search", h.SearchFiles)
	r.GET("/files/export", h.ExportWorkspace)

	// UI log forwarding
	r.POST("/logs", h.StreamLogs)
}
