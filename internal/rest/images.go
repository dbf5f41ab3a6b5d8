package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imagevault/imagevault/api"
	"github.com/imagevault/imagevault/catalog/application"
	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/imagevault/imagevault/internal/auth"
	"github.com/imagevault/imagevault/users"
)

const (
	defaultPageSize = 12
	maxUploadSize   = 50 << 20 // 50 MB
)

type ImageHandler struct {
	svc *application.ImageService
}

// requestScope resolves the scope query parameter: "mine" restricts to the
// caller's images, anything else covers the whole catalog.
func requestScope(c *gin.Context) domain.Scope {
	if c.Query("scope") == "mine" {
		return domain.OwnedBy(auth.CurrentUserID(c))
	}
	return domain.AllImages()
}

// List handles GET /images/v1
func (h *ImageHandler) List(c *gin.Context) {
	page, err := h.svc.ListPage(
		c.Request.Context(),
		requestScope(c),
		auth.CurrentUserID(c),
		queryInt(c, "page", 0),
		queryInt(c, "size", defaultPageSize),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAPIPage(page))
}

// Search handles GET /images/v1/search
func (h *ImageHandler) Search(c *gin.Context) {
	page, err := h.svc.SearchPage(
		c.Request.Context(),
		requestScope(c),
		auth.CurrentUserID(c),
		c.Query("q"),
		queryInt(c, "page", 0),
		queryInt(c, "size", defaultPageSize),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAPIPage(page))
}

// Upload handles POST /images/v1
func (h *ImageHandler) Upload(c *gin.Context) {
	if !users.CanUpload(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to upload images"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	record, err := h.svc.Upload(
		c.Request.Context(),
		auth.CurrentUserID(c),
		file,
		fileHeader.Filename,
		c.PostForm("title"),
		c.PostForm("description"),
		c.PostForm("tags"),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAPIImage(record))
}

// Retrieve handles GET /images/v1/:imageId, serving the raw bytes with the
// content type inferred from the stored filename.
func (h *ImageHandler) Retrieve(c *gin.Context) {
	id, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	data, contentType, err := h.svc.Retrieve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// Delete handles DELETE /images/v1/:imageId
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	decision := domain.Allow()
	if !users.CanDelete(auth.CurrentRole(c)) {
		decision = domain.Deny("you don't have permission to delete images")
	}

	if err := h.svc.Delete(c.Request.Context(), id, decision); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateDescription handles PUT /images/v1/:imageId/description
func (h *ImageHandler) UpdateDescription(c *gin.Context) {
	id, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	var req api.UpdateDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	decision := domain.Allow()
	if !users.CanEditDescription(auth.CurrentRole(c)) {
		decision = domain.Deny("you don't have permission to edit descriptions")
	}

	if err := h.svc.UpdateDescription(c.Request.Context(), id, req.Description, decision); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Sync handles POST /images/v1/sync
func (h *ImageHandler) Sync(c *gin.Context) {
	if !users.CanSync(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only administrators can sync files"})
		return
	}

	count, err := h.svc.Sync(c.Request.Context(), auth.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.SyncResponse{NewlyIndexed: count})
}

// AddToIndex handles POST /images/v1/index
func (h *ImageHandler) AddToIndex(c *gin.Context) {
	if !users.CanDelete(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to index images"})
		return
	}

	var req api.AddToIndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.svc.AddToIndex(
		c.Request.Context(),
		auth.CurrentUserID(c),
		req.StorageName,
		req.Title,
		req.OriginalName,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAPIImage(record))
}
