// Package api holds the wire types exchanged with clients.
package api

import "time"

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	StorageName  string    `json:"storage_name"`
	OriginalName string    `json:"original_name"`
	Description  string    `json:"description"`
	UploadedAt   time.Time `json:"uploaded_at"`
	OwnerID      int64     `json:"owner_id"`
	OwnerName    string    `json:"owner_name,omitempty"`
	Tags         []Tag     `json:"tags"`

	// Indexed is false for entries observed on disk but not yet persisted
	// in the catalog.
	Indexed bool `json:"indexed"`
}

type ImagePage struct {
	Images     []Image `json:"images"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalItems int     `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}

type AddTagRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

type AddToIndexRequest struct {
	StorageName  string `json:"storage_name" binding:"required"`
	Title        string `json:"title" binding:"required"`
	OriginalName string `json:"original_name"`
}

type SyncResponse struct {
	NewlyIndexed int `json:"newly_indexed"`
}
