package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/htmldesk/internal/app"
	"github.com/GriffinCanCode/htmldesk/internal/domain/workspace"
	"github.com/GriffinCanCode/htmldesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/htmldesk/internal/shared/types"
)

// Version is reported by the root and health endpoints
const Version = "0.3.0"

// maxBodyBytes caps file write request bodies. JSON escaping can make a body
// several times larger than the content it carries.
var maxBodyBytes int64 = 4 * workspace.MaxFileSize

// Handlers contains all HTTP handlers
type Handlers struct {
	manager *app.Manager
	files   *workspace.Service
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handler set. metrics may be nil.
func NewHandlers(manager *app.Manager, files *workspace.Service, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		manager: manager,
		files:   files,
		metrics: metrics,
		logger:  logger,
	}
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "htmldesk",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":    "healthy",
		"version":   Version,
		"workspace": h.manager.Info().Workspace,
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// GetWorkspace returns the active workspace and the recent history
func (h *Handlers) GetWorkspace(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.Info())
}

// SetWorkspace validates and activates a workspace directory
func (h *Handlers) SetWorkspace(c *gin.Context) {
	var req types.SetWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if _, err := h.manager.Select(req.Path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.manager.Info())
}

// ForgetWorkspace removes a directory from the recent history
func (h *Handlers) ForgetWorkspace(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	if err := h.manager.Forget(path); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.manager.Info())
}

// ListFiles lists the HTML files in the workspace root
func (h *Handlers) ListFiles(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	titles, _ := strconv.ParseBool(c.DefaultQuery("titles", "false"))
	items, err := h.files.List(c.Request.Context(), ws, workspace.ListOptions{Titles: titles})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": items, "workspace": ws})
}

// ReadFile returns a file's content
func (h *Handlers) ReadFile(c *gin.Context) {
	ws, path, ok := h.workspaceAndPath(c)
	if !ok {
		return
	}

	content, err := h.files.Read(c.Request.Context(), ws, path)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "content": content})
}

// CreateFile creates a new HTML file
func (h *Handlers) CreateFile(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.CreateFileRequest
	if !h.bindBody(c, &req) {
		return
	}

	item, err := h.files.Create(c.Request.Context(), ws, req.Name, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateFile writes content, optionally renaming first
func (h *Handlers) UpdateFile(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.UpdateFileRequest
	if !h.bindBody(c, &req) {
		return
	}

	item, err := h.files.Update(c.Request.Context(), ws, req.OldPath, req.NewName, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteFile removes a file, to the trash unless toTrash=false
func (h *Handlers) DeleteFile(c *gin.Context) {
	ws, path, ok := h.workspaceAndPath(c)
	if !ok {
		return
	}

	toTrash, err := strconv.ParseBool(c.DefaultQuery("toTrash", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "toTrash must be a boolean"})
		return
	}

	if err := h.files.Delete(c.Request.Context(), ws, path, toTrash); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "path": path, "trashed": toTrash})
}

// OpenFile opens a file in the OS default application
func (h *Handlers) OpenFile(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	var req types.OpenFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.files.OpenExternal(c.Request.Context(), ws, req.Path); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// InspectFile reports document metadata
func (h *Handlers) InspectFile(c *gin.Context) {
	ws, path, ok := h.workspaceAndPath(c)
	if !ok {
		return
	}

	doc, err := h.files.Inspect(c.Request.Context(), ws, path)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// PreviewFile returns sanitized HTML for embedding
func (h *Handlers) PreviewFile(c *gin.Context) {
	ws, path, ok := h.workspaceAndPath(c)
	if !ok {
		return
	}

	html, err := h.files.Preview(c.Request.Context(), ws, path)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "html": html})
}

// QueryFile selects elements of a document by XPath
func (h *Handlers) QueryFile(c *gin.Context) {
	ws, path, ok := h.workspaceAndPath(c)
	if !ok {
		return
	}

	matches, err := h.files.Query(c.Request.Context(), ws, path, c.Query("xpath"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "matches": matches, "count": len(matches)})
}

// SearchFiles finds HTML files matching a glob anywhere in the workspace
func (h *Handlers) SearchFiles(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	items, err := h.files.Search(c.Request.Context(), ws, c.Query("pattern"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": items, "count": len(items)})
}

// ExportWorkspace streams a compressed tar of the workspace's HTML files
func (h *Handlers) ExportWorkspace(c *gin.Context) {
	ws, ok := h.workspace(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", workspace.FormatZstd)
	if format != workspace.FormatZstd && format != workspace.FormatGzip {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be zstd or gzip"})
		return
	}

	filename := "workspace-" + time.Now().Format("20060102-150405") + workspace.ArchiveExt(format)
	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	count, err := h.files.Export(c.Request.Context(), ws, c.Writer, format)
	if err != nil {
		// Headers are already sent; the truncated archive is the client's signal
		h.logger.Error("Export failed", zap.String("workspace", ws), zap.Int("files", count), zap.Error(err))
		_ = c.Error(err)
		return
	}
	h.logger.Info("Exported workspace", zap.String("workspace", ws), zap.Int("files", count), zap.String("format", format))
}

// workspace returns the active workspace or writes a 409
func (h *Handlers) workspace(c *gin.Context) (string, bool) {
	ws, err := h.manager.Require()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return "", false
	}
	return ws, true
}

func (h *Handlers) workspaceAndPath(c *gin.Context) (string, string, bool) {
	ws, ok := h.workspace(c)
	if !ok {
		return "", "", false
	}
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return "", "", false
	}
	return ws, path, true
}

// bindBody decodes a size-capped JSON body into req, answering 413 or 400
// itself on failure
func (h *Handlers) bindBody(c *gin.Context, req any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": fmt.Sprintf("%s: request body exceeds %d bytes", workspace.ErrTooLarge, tooLarge.Limit),
			})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return false
	}
	return true
}

// fail writes err with the status its sentinel maps to
func (h *Handlers) fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps domain errors onto HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, workspace.ErrPathTraversal):
		return http.StatusForbidden
	case errors.Is(err, workspace.ErrInvalidFilename),
		errors.Is(err, workspace.ErrNotHTML),
		errors.Is(err, workspace.ErrIsDirectory),
		errors.Is(err, workspace.ErrInvalidQuery),
		errors.Is(err, workspace.ErrInvalidPattern):
		return http.StatusBadRequest
	case errors.Is(err, workspace.ErrFileExists),
		errors.Is(err, app.ErrNoWorkspace):
		return http.StatusConflict
	case errors.Is(err, workspace.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
