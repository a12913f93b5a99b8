package app

import (
	"errors"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/internal/messaging/repository"
	"social_messaging_service/pkg/logger"
	"social_messaging_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MessagingHTTPHandler REST surface over the chat and delivery use cases
type MessagingHTTPHandler struct {
	chatUC     *ChatUseCase
	deliveryUC *DeliveryUseCase
	mediaRepo  repository.MediaRepository
}

// NewMessagingHTTPHandler create MessagingHTTPHandler. mediaRepo may be nil
// when no object store is configured, media uploads then fail with 500.
func NewMessagingHTTPHandler(
	chatUC *ChatUseCase,
	deliveryUC *DeliveryUseCase,
	mediaRepo repository.MediaRepository,
) *MessagingHTTPHandler {
	return &MessagingHTTPHandler{
		chatUC:     chatUC,
		deliveryUC: deliveryUC,
		mediaRepo:  mediaRepo,
	}
}

type createChatRequest struct {
	Participants []string `json:"participants"`
}

type chatUserRequest struct {
	ChatID string `json:"chatId"`
	UserID string `json:"userId"`
}

type readReceiptRequest struct {
	MessageID string `json:"messageId"`
}

type typingRequest struct {
	ChatID string `json:"chatId"`
}

// CreateChat create a new chat
func (h *MessagingHTTPHandler) CreateChat(c *fiber.Ctx) error {
	var req createChatRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	chat, err := h.chatUC.Create(c.Context(), req.Participants)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"chat": chat},
	})
}

// ChatsForUser list a user's chats with pagination
func (h *MessagingHTTPHandler) ChatsForUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))

	chats, err := h.chatUC.ChatsForUser(c.Context(), userID, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(chats),
		"data":    fiber.Map{"chats": chats},
	})
}

// ChatDetails return the chat and its messages
func (h *MessagingHTTPHandler) ChatDetails(c *fiber.Ctx) error {
	chat, messages, err := h.chatUC.Details(c.Context(), c.Params("chatId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"chat": chat, "messages": messages},
	})
}

// AddUser add a participant to a chat
func (h *MessagingHTTPHandler) AddUser(c *fiber.Ctx) error {
	var req chatUserRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	chat, err := h.chatUC.AddParticipant(c.Context(), req.ChatID, req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"chat": chat},
	})
}

// RemoveUser remove a participant from a chat
func (h *MessagingHTTPHandler) RemoveUser(c *fiber.Ctx) error {
	var req chatUserRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	chat, err := h.chatUC.RemoveParticipant(c.Context(), req.ChatID, req.UserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"chat": chat},
	})
}

// Typing emit a typing indicator to the chat's present participants
func (h *MessagingHTTPHandler) Typing(c *fiber.Ctx) error {
	var req typingRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	senderID, _ := c.Locals(middlewares.TokenUserID).(string)
	if err := h.deliveryUC.Typing(c.Context(), req.ChatID, senderID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Typing indicator sent",
	})
}

// ReadReceipt mark a message read
func (h *MessagingHTTPHandler) ReadReceipt(c *fiber.Ctx) error {
	var req readReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		return failJSON(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, err := h.deliveryUC.MarkRead(c.Context(), req.MessageID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"message": message},
	})
}

// SendMessage create a message, optional multipart media attachment
func (h *MessagingHTTPHandler) SendMessage(c *fiber.Ctx) error {
	senderID, _ := c.Locals(middlewares.TokenUserID).(string)
	chatID := c.FormValue("chatId")
	body := c.FormValue("message")

	var mediaRef string
	if file, err := c.FormFile("media"); err == nil && file != nil {
		if h.mediaRepo == nil {
			return failJSON(c, fiber.StatusInternalServerError, "media storage not configured")
		}
		src, err := file.Open()
		if err != nil {
			return respondError(c, err)
		}
		defer src.Close()

		mediaRef, err = h.mediaRepo.Upload(c.Context(), file.Filename, src, file.Size, file.Header.Get(fiber.HeaderContentType))
		if err != nil {
			logger.Log.Error("media upload failed", zap.String("filename", file.Filename), zap.String("err", err.Error()))
			return respondError(c, err)
		}
	}

	message, err := h.deliveryUC.Send(c.Context(), senderID, chatID, body, mediaRef)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"message": message},
	})
}

// DeleteMessage soft-delete, disable the message's media visibility
func (h *MessagingHTTPHandler) DeleteMessage(c *fiber.Ctx) error {
	message, err := h.deliveryUC.HideMedia(c.Context(), c.Params("messageId"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Media visibility disabled successfully",
		"data":    fiber.Map{"message": message},
	})
}

// MessagesForUser list every message across the caller's chats
func (h *MessagingHTTPHandler) MessagesForUser(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	messages, err := h.deliveryUC.MessagesForUser(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(messages),
		"data":    fiber.Map{"messages": messages},
	})
}

// SearchMessages find the caller's messages matching the query
func (h *MessagingHTTPHandler) SearchMessages(c *fiber.Ctx) error {
	userID, _ := c.Locals(middlewares.TokenUserID).(string)

	messages, err := h.deliveryUC.SearchMessages(c.Context(), userID, c.Params("query"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"results": len(messages),
		"data":    fiber.Map{"messages": messages},
	})
}

// MediaURL presign a short-lived download URL for a media object
func (h *MessagingHTTPHandler) MediaURL(c *fiber.Ctx) error {
	object := c.Query("object")
	if object == "" {
		return failJSON(c, fiber.StatusBadRequest, "object query parameter is required")
	}
	if h.mediaRepo == nil {
		return failJSON(c, fiber.StatusInternalServerError, "media storage not configured")
	}

	url, err := h.mediaRepo.PresignURL(c.Context(), object)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"url": url},
	})
}

// respondError map domain errors onto the response envelope
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrChatNotFound),
		errors.Is(err, domain.ErrMessageNotFound):
		return failJSON(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTooFewParticipants),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrNotAParticipant),
		errors.Is(err, domain.ErrInvalidStatus):
		return failJSON(c, fiber.StatusBadRequest, err.Error())
	default:
		logger.Log.Error("unexpected handler error", zap.String("err", err.Error()))
		return failJSON(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func failJSON(c *fiber.Ctx, code int, msg string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "fail",
		"message": msg,
	})
}
