package app

import (
	"context"
	"errors"
	"testing"

	"social_messaging_service/internal/messaging/domain"
	"social_messaging_service/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDeliveryUseCase_Send_DeliveredOnce(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()
	senderID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockEvents := new(MockEventRepository)

	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{senderID, "user-b", "user-c"},
		ChatType:     domain.ChatTypeGroup,
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)
	mockChatRepo.On("AppendMessage", ctx, chatID, mock.Anything).Return(nil)

	// every new message is persisted as sent before any hand-off
	mockMsgRepo.On("Insert", ctx, mock.MatchedBy(func(msg *domain.Message) bool {
		return msg.Status == domain.StatusSent && msg.IsMediaVisible
	})).Return(nil)
	mockMsgRepo.On("UpdateStatus", ctx, mock.Anything, domain.StatusDelivered).
		Return(&domain.Message{ChatID: chatID, SenderID: senderID, Status: domain.StatusDelivered}, nil).
		Once()

	mockEvents.On("PublishMessageCreated", ctx, mock.Anything).Return(nil)

	// both recipients are connected
	presence := NewPresenceRegistry()
	connB := &fakeConn{}
	connC := &fakeConn{}
	presence.Register("user-b", connB)
	presence.Register("user-c", connC)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, presence, mockEvents)
	msg, err := uc.Send(ctx, senderID, chatID, "hello there", "")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, msg.Status)
	assert.Equal(t, []string{string(domain.EventReceiveMessage)}, connB.actions())
	assert.Equal(t, []string{string(domain.EventReceiveMessage)}, connC.actions())

	// every recipient sees the same as-persisted message, regardless of
	// where in the hand-off round it sat
	for _, conn := range []*fakeConn{connB, connC} {
		handedOff := conn.events[0].Payload["message"].(*domain.Message)
		assert.Equal(t, domain.StatusSent, handedOff.Status)
	}

	mockChatRepo.AssertExpectations(t)
	mockMsgRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
	mockMsgRepo.AssertNumberOfCalls(t, "UpdateStatus", 1)
}

func TestDeliveryUseCase_Send_RecipientsOffline(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()
	senderID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{senderID, "user-b"},
		ChatType:     domain.ChatTypePrivate,
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)
	mockChatRepo.On("AppendMessage", ctx, chatID, mock.Anything).Return(nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, NewPresenceRegistry(), nil)
	msg, err := uc.Send(ctx, senderID, chatID, "anyone home?", "")

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusSent, msg.Status)
	mockMsgRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	mockChatRepo.AssertExpectations(t)
	mockMsgRepo.AssertExpectations(t)
}

func TestDeliveryUseCase_Send_WriteFailureKeepsSent(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()
	senderID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{senderID, "user-b"},
		ChatType:     domain.ChatTypePrivate,
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)
	mockChatRepo.On("AppendMessage", ctx, chatID, mock.Anything).Return(nil)
	mockMsgRepo.On("Insert", ctx, mock.Anything).Return(nil)

	presence := NewPresenceRegistry()
	presence.Register("user-b", &fakeConn{failErr: errors.New("connection reset")})

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, presence, nil)
	msg, err := uc.Send(ctx, senderID, chatID, "hello?", "")

	// a failed hand-off is not a send failure, the message stays sent
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusSent, msg.Status)
	mockMsgRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryUseCase_Send_EmptyMessage(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()
	senderID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{senderID, "user-b"},
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, NewPresenceRegistry(), nil)
	msg, err := uc.Send(ctx, senderID, chatID, "", "")

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	assert.Nil(t, msg)
	// nothing persists when validation fails
	mockMsgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	mockChatRepo.AssertNotCalled(t, "AppendMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliveryUseCase_Send_NotAParticipant(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{"user-a", "user-b"},
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, NewPresenceRegistry(), nil)
	msg, err := uc.Send(ctx, "outsider", chatID, "let me in", "")

	assert.ErrorIs(t, err, domain.ErrNotAParticipant)
	assert.Nil(t, msg)
	mockMsgRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeliveryUseCase_Send_ChatNotFound(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockChatRepo.On("FindByID", ctx, chatID).Return(nil, domain.ErrChatNotFound)

	uc := NewDeliveryUseCase(mockChatRepo, new(MockMessageRepository), NewPresenceRegistry(), nil)
	msg, err := uc.Send(ctx, "user-a", chatID, "hello", "")

	assert.ErrorIs(t, err, domain.ErrChatNotFound)
	assert.Nil(t, msg)
}

func TestDeliveryUseCase_MarkRead(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("UpdateStatus", ctx, messageID, domain.StatusRead).
		Return(&domain.Message{ID: messageID, Status: domain.StatusRead}, nil)

	uc := NewDeliveryUseCase(new(MockChatRepository), mockMsgRepo, NewPresenceRegistry(), nil)
	msg, err := uc.MarkRead(ctx, messageID)

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusRead, msg.Status)
	mockMsgRepo.AssertExpectations(t)
}

func TestDeliveryUseCase_Typing(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	chatID := uuid.New().String()
	senderID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	chat := &domain.Chat{
		ID:           chatID,
		Participants: []string{senderID, "user-b", "user-c"},
	}
	mockChatRepo.On("FindByID", ctx, chatID).Return(chat, nil)

	presence := NewPresenceRegistry()
	connB := &fakeConn{}
	presence.Register("user-b", connB)
	// the sender's own connection must not get the indicator
	connSender := &fakeConn{}
	presence.Register(senderID, connSender)

	uc := NewDeliveryUseCase(mockChatRepo, new(MockMessageRepository), presence, nil)
	err := uc.Typing(ctx, chatID, senderID)

	assert.NoError(t, err)
	assert.Equal(t, []string{string(domain.EventUserTyping)}, connB.actions())
	assert.Empty(t, connSender.events)
}

func TestDeliveryUseCase_HideMedia(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	messageID := uuid.New().String()

	mockMsgRepo := new(MockMessageRepository)
	mockMsgRepo.On("SetMediaVisibility", ctx, messageID, false).
		Return(&domain.Message{ID: messageID, IsMediaVisible: false}, nil)

	uc := NewDeliveryUseCase(new(MockChatRepository), mockMsgRepo, NewPresenceRegistry(), nil)
	msg, err := uc.HideMedia(ctx, messageID)

	assert.NoError(t, err)
	assert.False(t, msg.IsMediaVisible)
	mockMsgRepo.AssertExpectations(t)
}

func TestDeliveryUseCase_MessagesForUser(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	userID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)

	chatIDs := []string{"chat-1", "chat-2"}
	mockChatRepo.On("ParticipantChatIDs", ctx, userID).Return(chatIDs, nil)
	mockMsgRepo.On("FindByChats", ctx, chatIDs).
		Return([]domain.Message{{ID: "m1"}, {ID: "m2"}}, nil)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, NewPresenceRegistry(), nil)
	messages, err := uc.MessagesForUser(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestDeliveryUseCase_SearchMessages_NoChats(t *testing.T) {
	logger.SetNewNop()
	ctx := context.Background()
	userID := uuid.New().String()

	mockChatRepo := new(MockChatRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockChatRepo.On("ParticipantChatIDs", ctx, userID).Return([]string{}, nil)

	uc := NewDeliveryUseCase(mockChatRepo, mockMsgRepo, NewPresenceRegistry(), nil)
	messages, err := uc.SearchMessages(ctx, userID, "hello")

	assert.NoError(t, err)
	assert.Empty(t, messages)
	mockMsgRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}
