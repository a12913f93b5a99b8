package app

import (
	"context"
	"time"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/internal/messaging/repository"
	errprocess "social_messaging_service/pkg/err"
	"social_messaging_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeliveryUseCase is the delivery coordinator: it persists messages, decides
// live hand-off from a presence snapshot taken at send time, and advances the
// message status. Delivery is best effort, there is no later reconciliation
// for users who connect right after a send.
type DeliveryUseCase struct {
	chatRepo repository.ChatRepository
	msgRepo  repository.MessageRepository
	presence *PresenceRegistry
	events   repository.EventRepository
}

// NewDeliveryUseCase init delivery use case. events may be nil when no
// broker is configured.
func NewDeliveryUseCase(
	chatRepo repository.ChatRepository,
	msgRepo repository.MessageRepository,
	presence *PresenceRegistry,
	events repository.EventRepository,
) *DeliveryUseCase {
	return &DeliveryUseCase{
		chatRepo: chatRepo,
		msgRepo:  msgRepo,
		presence: presence,
		events:   events,
	}
}

// Send validate, persist and hand off one message. The returned message
// carries whatever status resulted from the delivery attempt.
func (uc *DeliveryUseCase) Send(ctx context.Context, senderID, chatID, body, media string) (*domain.Message, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, domain.ErrNotAParticipant
	}

	now := time.Now().Unix()
	msg := &domain.Message{
		ID:             uuid.New().String(),
		ChatID:         chatID,
		SenderID:       senderID,
		Body:           body,
		Media:          media,
		Status:         domain.StatusSent,
		IsMediaVisible: true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !msg.HasContent() {
		return nil, domain.ErrEmptyMessage
	}

	if err := uc.msgRepo.Insert(ctx, msg); err != nil {
		return nil, errprocess.Setf("persist message failed: %v", err)
	}
	if err := uc.chatRepo.AppendMessage(ctx, chatID, msg.ID); err != nil {
		return nil, errprocess.Setf("append message to chat[%s] failed: %v", chatID, err)
	}

	// snapshot of who is reachable right now decides the delivery status.
	// every recipient gets the same as-persisted message; the status
	// advances once, after the hand-off round
	delivered := false
	for _, participant := range chat.OtherParticipants(senderID) {
		conn := uc.presence.Lookup(participant)
		if conn == nil {
			continue
		}
		writeErr := conn.WriteEvent(domain.WSResponse{
			Action:  string(domain.EventReceiveMessage),
			Success: true,
			Payload: map[string]interface{}{"message": msg},
		})
		if writeErr != nil {
			// hand-off failed, status stays as is
			logger.Log.Error("live delivery failed",
				zap.String("messageID", msg.ID),
				zap.String("userID", participant),
				zap.String("err", writeErr.Error()))
			continue
		}
		delivered = true
	}
	if delivered {
		updated, err := uc.msgRepo.UpdateStatus(ctx, msg.ID, domain.StatusDelivered)
		if err != nil {
			logger.Log.Error("advance to delivered failed",
				zap.String("messageID", msg.ID),
				zap.String("err", err.Error()))
		} else {
			msg = updated
		}
	}

	// ack back to the sender's own connection
	if conn := uc.presence.Lookup(senderID); conn != nil {
		if err := conn.WriteEvent(domain.WSResponse{
			Action:  string(domain.EventMessageSent),
			Success: true,
			Payload: map[string]interface{}{"message": msg},
		}); err != nil {
			logger.Log.Warn("send ack failed", zap.String("messageID", msg.ID), zap.String("err", err.Error()))
		}
	}

	if uc.events != nil {
		if err := uc.events.PublishMessageCreated(ctx, msg); err != nil {
			logger.Log.Warn("publish message.created failed", zap.String("messageID", msg.ID), zap.String("err", err.Error()))
		}
	}

	return msg, nil
}

// MarkRead apply the read receipt for one message. Valid from sent or
// delivered; anything else fails with ErrInvalidStatus.
func (uc *DeliveryUseCase) MarkRead(ctx context.Context, messageID string) (*domain.Message, error) {
	return uc.msgRepo.UpdateStatus(ctx, messageID, domain.StatusRead)
}

// Typing notify present co-participants that senderID is typing. Nothing is
// persisted.
func (uc *DeliveryUseCase) Typing(ctx context.Context, chatID, senderID string) error {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return err
	}

	for _, participant := range chat.OtherParticipants(senderID) {
		conn := uc.presence.Lookup(participant)
		if conn == nil {
			continue
		}
		if err := conn.WriteEvent(domain.WSResponse{
			Action:  string(domain.EventUserTyping),
			Success: true,
			Payload: map[string]interface{}{"senderId": senderID},
		}); err != nil {
			logger.Log.Warn("typing emit failed", zap.String("userID", participant), zap.String("err", err.Error()))
		}
	}
	return nil
}

// HideMedia soft-delete the message's attached media. The record stays.
func (uc *DeliveryUseCase) HideMedia(ctx context.Context, messageID string) (*domain.Message, error) {
	return uc.msgRepo.SetMediaVisibility(ctx, messageID, false)
}

// MessagesForUser list every message across the user's chats, newest first
func (uc *DeliveryUseCase) MessagesForUser(ctx context.Context, userID string) ([]domain.Message, error) {
	chatIDs, err := uc.chatRepo.ParticipantChatIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chatIDs) == 0 {
		return nil, nil
	}
	return uc.msgRepo.FindByChats(ctx, chatIDs)
}

// SearchMessages find the user's messages whose body matches query
func (uc *DeliveryUseCase) SearchMessages(ctx context.Context, userID, query string) ([]domain.Message, error) {
	chatIDs, err := uc.chatRepo.ParticipantChatIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chatIDs) == 0 {
		return nil, nil
	}
	return uc.msgRepo.Search(ctx, chatIDs, query)
}
