package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers item-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, userMiddleware gin.HandlerFunc) {
	group := g.Group("/items")

	group.Use(userMiddleware)
	{
		group.GET("", h.List)                    // Items owned by the caller
		group.GET("/search", h.Search)           // Available items matching ?text=
		group.GET("/:id", h.Get)                 // Item details
		group.POST("", h.Create)                 // Create item
		group.PATCH("/:id", h.Update)            // Update item (owner only)
		group.DELETE("/:id", h.Delete)           // Delete item (owner only)
		group.POST("/:id/comment", h.AddComment) // Comment after a completed booking
	}
}
