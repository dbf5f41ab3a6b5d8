package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imagevault/imagevault/api"
	"github.com/imagevault/imagevault/internal/auth"
	"github.com/imagevault/imagevault/users"
)

// AddTag handles POST /images/v1/:imageId/tags
func (h *ImageHandler) AddTag(c *gin.Context) {
	if !users.CanTag(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to add tags"})
		return
	}

	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}

	var req api.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.svc.AddTag(c.Request.Context(), imageID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Tag{ID: tag.ID, Name: tag.Name})
}

// RemoveTag handles DELETE /images/v1/:imageId/tags/:tagId
func (h *ImageHandler) RemoveTag(c *gin.Context) {
	if !users.CanTag(auth.CurrentRole(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to remove tags"})
		return
	}

	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tagId")
	if !ok {
		return
	}

	if err := h.svc.RemoveTag(c.Request.Context(), imageID, tagID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
