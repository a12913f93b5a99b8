package router

import (
	"context"

	"social_messaging_service/internal/messaging/app"
	"social_messaging_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RegisterRoutes register the messaging routes
func RegisterRoutes(
	r *fiber.App,
	httpHandler *app.MessagingHTTPHandler,
	wsHandler *app.MessagingWebsocketHandler,
	rateLimit fiber.Handler,
) {
	r.Use(middlewares.JWTMiddleware())
	if rateLimit != nil {
		r.Use(rateLimit)
	}

	r.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHandler.HandleConnection(context.Background(), c)
	}))

	r.Post("/createChat", httpHandler.CreateChat)
	r.Post("/send-message", httpHandler.SendMessage)
	r.Post("/typing", httpHandler.Typing)
	r.Patch("/add-user", httpHandler.AddUser)
	r.Patch("/remove-user", httpHandler.RemoveUser)
	r.Patch("/read-receipt", httpHandler.ReadReceipt)

	r.Get("/messages", httpHandler.MessagesForUser)
	r.Get("/messages/search/:query", httpHandler.SearchMessages)
	r.Get("/media-url", httpHandler.MediaURL)
	r.Delete("/message/:messageId", httpHandler.DeleteMessage)

	// keep after the static routes, ":userId" would shadow them otherwise
	r.Get("/details/:chatId", httpHandler.ChatDetails)
	r.Get("/:userId", httpHandler.ChatsForUser)
}
