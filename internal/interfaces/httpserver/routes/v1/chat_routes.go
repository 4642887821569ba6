package v1

import (
	"github.com/gin-gonic/gin"

	"ecoeats-server/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler) {
	group.POST("/chat", handler.Chat)
}
