package app

import (
	"context"
	"time"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/internal/messaging/repository"
	"social_messaging_service/pkg"
	errprocess "social_messaging_service/pkg/err"

	"github.com/google/uuid"
)

// ChatUseCase handle conversation records: create, list, membership edits
type ChatUseCase struct {
	chatRepo repository.ChatRepository
	msgRepo  repository.MessageRepository
}

// NewChatUseCase init chat use case
func NewChatUseCase(chatRepo repository.ChatRepository, msgRepo repository.MessageRepository) *ChatUseCase {
	return &ChatUseCase{
		chatRepo: chatRepo,
		msgRepo:  msgRepo,
	}
}

// Create create a chat with the given participants. Duplicates collapse to
// one membership and at least two distinct participants must remain.
func (uc *ChatUseCase) Create(ctx context.Context, participants []string) (*domain.Chat, error) {
	participants = pkg.Dedupe(participants)
	if len(participants) < domain.MinParticipants {
		return nil, domain.ErrTooFewParticipants
	}

	chatType := domain.ChatTypePrivate
	if len(participants) > 2 {
		chatType = domain.ChatTypeGroup
	}

	now := time.Now().Unix()
	chat := &domain.Chat{
		ID:           uuid.New().String(),
		Participants: participants,
		ChatType:     chatType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.chatRepo.Insert(ctx, chat); err != nil {
		return nil, errprocess.Setf("create chat failed: %v", err)
	}
	return chat, nil
}

// ChatsForUser list the user's chats, newest first
func (uc *ChatUseCase) ChatsForUser(ctx context.Context, userID string, page, limit int64) ([]domain.Chat, error) {
	return uc.chatRepo.FindByParticipant(ctx, userID, page, limit)
}

// Details return the chat and its messages in creation order
func (uc *ChatUseCase) Details(ctx context.Context, chatID string) (*domain.Chat, []domain.Message, error) {
	chat, err := uc.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	messages, err := uc.msgRepo.FindByChat(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	return chat, messages, nil
}

// AddParticipant add a member, no-op when already present
func (uc *ChatUseCase) AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	return uc.chatRepo.AddParticipant(ctx, chatID, userID)
}

// RemoveParticipant remove a member, no-op when absent
func (uc *ChatUseCase) RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	return uc.chatRepo.RemoveParticipant(ctx, chatID, userID)
}
