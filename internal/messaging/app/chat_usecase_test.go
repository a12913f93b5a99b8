package app

import (
	"context"
	"testing"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestChatUseCase_Create(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("Insert", ctx, mock.MatchedBy(func(chat *domain.Chat) bool {
		return chat.ChatType == domain.ChatTypePrivate && len(chat.Participants) == 2
	})).Return(nil)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.Create(ctx, []string{"user-a", "user-b"})

	assert.NoError(t, err)
	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, domain.ChatTypePrivate, chat.ChatType)
	mockChatRepo.AssertExpectations(t)
}

func TestChatUseCase_Create_Group(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("Insert", ctx, mock.Anything).Return(nil)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.Create(ctx, []string{"user-a", "user-b", "user-c"})

	assert.NoError(t, err)
	assert.Equal(t, domain.ChatTypeGroup, chat.ChatType)
}

func TestChatUseCase_Create_DedupesParticipants(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("Insert", ctx, mock.Anything).Return(nil)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.Create(ctx, []string{"user-a", "user-b", "user-a"})

	assert.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, chat.Participants)
	assert.Equal(t, domain.ChatTypePrivate, chat.ChatType)
}

func TestChatUseCase_Create_TooFewParticipants(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()

	mockChatRepo := new(MockChatRepository)
	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))

	// a single user, even repeated, is not a conversation
	for _, participants := range [][]string{
		nil,
		{"user-a"},
		{"user-a", "user-a", "user-a"},
	} {
		chat, err := uc.Create(ctx, participants)
		assert.ErrorIs(t, err, domain.ErrTooFewParticipants)
		assert.Nil(t, chat)
	}
	mockChatRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestChatUseCase_AddParticipant(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("AddParticipant", ctx, chatID, "user-c").
		Return(&domain.Chat{ID: chatID, Participants: []string{"user-a", "user-b", "user-c"}}, nil)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.AddParticipant(ctx, chatID, "user-c")

	assert.NoError(t, err)
	assert.Contains(t, chat.Participants, "user-c")
	mockChatRepo.AssertExpectations(t)
}

func TestChatUseCase_AddParticipant_ChatNotFound(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("AddParticipant", ctx, chatID, "user-c").
		Return(nil, domain.ErrChatNotFound)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.AddParticipant(ctx, chatID, "user-c")

	assert.ErrorIs(t, err, domain.ErrChatNotFound)
	assert.Nil(t, chat)
}

func TestChatUseCase_RemoveParticipant(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("RemoveParticipant", ctx, chatID, "user-b").
		Return(&domain.Chat{ID: chatID, Participants: []string{"user-a"}}, nil)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, err := uc.RemoveParticipant(ctx, chatID, "user-b")

	assert.NoError(t, err)
	assert.NotContains(t, chat.Participants, "user-b")
	mockChatRepo.AssertExpectations(t)
}

func TestChatUseCase_Details(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	mockChatRepo.On("FindByID", ctx, chatID).
		Return(&domain.Chat{ID: chatID, Participants: []string{"a", "b"}}, nil)
	mockMsgRepo.On("FindByChat", ctx, chatID).
		Return([]domain.Message{{ID: "m1"}, {ID: "m2"}}, nil)

	uc := NewChatUseCase(mockChatRepo, mockMsgRepo)
	chat, messages, err := uc.Details(ctx, chatID)

	assert.NoError(t, err)
	assert.Equal(t, chatID, chat.ID)
	assert.Len(t, messages, 2)
}

func TestChatUseCase_Details_NotFound(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("FindByID", ctx, chatID).Return(nil, domain.ErrChatNotFound)

	uc := NewChatUseCase(mockChatRepo, new(MockMessageRepository))
	chat, messages, err := uc.Details(ctx, chatID)

	assert.ErrorIs(t, err, domain.ErrChatNotFound)
	assert.Nil(t, chat)
	assert.Nil(t, messages)
}
