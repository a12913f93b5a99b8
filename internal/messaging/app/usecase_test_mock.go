package app

import (
	"context"

	"social_messaging_service/internal/messaging/domain"

	"github.com/stretchr/testify/mock"
)

// MockChatRepository Mock ChatRepository
type MockChatRepository struct {
	mock.Mock
}

// Insert moke insert chat
func (m *MockChatRepository) Insert(ctx context.Context, chat *domain.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

// FindByID moke find chat by chat id
func (m *MockChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByParticipant moke list user chats
func (m *MockChatRepository) FindByParticipant(ctx context.Context, userID string, page, limit int64) ([]domain.Chat, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// ParticipantChatIDs moke list user chat ids
func (m *MockChatRepository) ParticipantChatIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// AppendMessage moke append message to chat
func (m *MockChatRepository) AppendMessage(ctx context.Context, chatID, messageID string) error {
	args := m.Called(ctx, chatID, messageID)
	return args.Error(0)
}

// AddParticipant moke add chat member
func (m *MockChatRepository) AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// RemoveParticipant moke remove chat member
func (m *MockChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Chat), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert msg
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// FindByID moke find msg by id
func (m *MockMessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByChat moke list chat msgs
func (m *MockMessageRepository) FindByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByChats moke list msgs across chats
func (m *MockMessageRepository) FindByChats(ctx context.Context, chatIDs []string) ([]domain.Message, error) {
	args := m.Called(ctx, chatIDs)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// Search moke search msgs
func (m *MockMessageRepository) Search(ctx context.Context, chatIDs []string, query string) ([]domain.Message, error) {
	args := m.Called(ctx, chatIDs, query)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus moke advance msg status
func (m *MockMessageRepository) UpdateStatus(ctx context.Context, id string, next domain.MessageStatus) (*domain.Message, error) {
	args := m.Called(ctx, id, next)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// SetMediaVisibility moke toggle media visibility
func (m *MockMessageRepository) SetMediaVisibility(ctx context.Context, id string, visible bool) (*domain.Message, error) {
	args := m.Called(ctx, id, visible)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockEventRepository Mock EventRepository
type MockEventRepository struct {
	mock.Mock
}

// PublishMessageCreated moke publish message created event
func (m *MockEventRepository) PublishMessageCreated(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// fakeConn collect the events written to one connection
type fakeConn struct {
	events  []domain.WSResponse
	failErr error
}

func (c *fakeConn) WriteEvent(resp domain.WSResponse) error {
	if c.failErr != nil {
		return c.failErr
	}
	c.events = append(c.events, resp)
	return nil
}

func (c *fakeConn) actions() []string {
	out := make([]string, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.Action)
	}
	return out
}
