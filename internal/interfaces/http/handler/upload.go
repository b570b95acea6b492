package handler

import (
	"net/http"

	"github.com/bizdesk/erp/internal/application/upload"
	"github.com/gin-gonic/gin"
)

// UploadHandler stores and serves tenant files
type UploadHandler struct {
	BaseHandler
	uploadService *upload.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *upload.Service) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload stores the multipart field "file" under the given folder
// POST /uploads/:folder
func (h *UploadHandler) Upload(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Multipart field 'file' is required")
		return
	}
	f, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer f.Close()

	result, err := h.uploadService.Upload(c.Request.Context(), tenantID, userID, c.Param("folder"), upload.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List returns the objects stored under ?path= relative to the tenant root
// GET /uploads
func (h *UploadHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	objects, err := h.uploadService.List(c.Request.Context(), tenantID, c.Query("path"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, objects)
}

// Serve streams a local file or redirects to a signed object URL
// GET /uploads/*key
func (h *UploadHandler) Serve(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	loc, err := h.uploadService.Resolve(c.Request.Context(), tenantID, c.Param("key"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if loc.RedirectURL != "" {
		c.Redirect(http.StatusFound, loc.RedirectURL)
		return
	}
	c.File(loc.Path)
}
