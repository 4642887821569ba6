package v1

import (
	"github.com/gin-gonic/gin"

	"ecoeats-server/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(group *gin.RouterGroup, handler *handlers.ConversationHandler) {
	conversations := group.Group("/conversations")
	conversations.POST("", handler.Create)
	conversations.GET("", handler.List)
	conversations.GET("/:id", handler.Get)
	conversations.PATCH("/:id", handler.Rename)
	conversations.DELETE("/:id", handler.Delete)
	conversations.GET("/:id/messages", handler.ListMessages)
	conversations.GET("/:id/messages/count", handler.CountMessages)
	conversations.POST("/:id/messages", handler.CreateMessage)
}
