package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/imagevault/imagevault/api"
	"github.com/imagevault/imagevault/catalog/application"
	"github.com/imagevault/imagevault/catalog/domain"
	"github.com/rs/zerolog/log"
)

// respondError maps catalog errors onto HTTP statuses with a readable reason.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func toAPIImage(img *domain.ImageRecord) api.Image {
	tags := make([]api.Tag, 0, len(img.Tags))
	for _, t := range img.Tags {
		tags = append(tags, api.Tag{ID: t.ID, Name: t.Name})
	}

	return api.Image{
		ID:           img.ID,
		Title:        img.Title,
		StorageName:  img.StorageName,
		OriginalName: img.OriginalName,
		Description:  img.Description,
		UploadedAt:   img.UploadedAt,
		OwnerID:      img.OwnerID,
		OwnerName:    img.OwnerName,
		Tags:         tags,
		Indexed:      img.ID != 0,
	}
}

func toAPIPage(page *application.Page) api.ImagePage {
	images := make([]api.Image, 0, len(page.Items))
	for _, img := range page.Items {
		images = append(images, toAPIImage(img))
	}

	return api.ImagePage{
		Images:     images,
		Page:       page.PageNumber,
		PageSize:   page.PageSize,
		TotalItems: page.TotalCount,
		TotalPages: page.TotalPages(),
	}
}
