// Package rest wires the catalog and user services to their HTTP routes.
package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/imagevault/imagevault/catalog/application"
	"github.com/imagevault/imagevault/internal/auth"
	"github.com/imagevault/imagevault/users"
)

func NewApi(router *gin.Engine, svc *application.ImageService, userSvc *users.Service, tokens *auth.Manager) {
	authHandler := &AuthHandler{users: userSvc, tokens: tokens}
	imageHandler := &ImageHandler{svc: svc}

	authV1 := router.Group("auth/v1")
	{
		authV1.POST("/login", authHandler.Login)
		authV1.POST("/users", tokens.Middleware(), authHandler.CreateUser)
	}

	imagesV1 := router.Group("images/v1", tokens.Middleware())
	{
		imagesV1.GET("/", imageHandler.List)
		imagesV1.POST("/", imageHandler.Upload)
		imagesV1.GET("/search", imageHandler.Search)
		imagesV1.POST("/sync", imageHandler.Sync)
		imagesV1.POST("/index", imageHandler.AddToIndex)
		imagesV1.GET("/:imageId", imageHandler.Retrieve)
		imagesV1.DELETE("/:imageId", imageHandler.Delete)
		imagesV1.PUT("/:imageId/description", imageHandler.UpdateDescription)
		imagesV1.POST("/:imageId/tags", imageHandler.AddTag)
		imagesV1.DELETE("/:imageId/tags/:tagId", imageHandler.RemoveTag)
	}
}
