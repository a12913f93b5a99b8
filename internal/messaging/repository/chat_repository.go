package repository

import (
	"context"
	"errors"
	"time"

	"social_messaging_service/internal/messaging/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository definition chat store
type ChatRepository interface {
	Insert(ctx context.Context, chat *domain.Chat) error
	FindByID(ctx context.Context, chatID string) (*domain.Chat, error)
	// FindByParticipant list a user's chats, newest first, paginated
	FindByParticipant(ctx context.Context, userID string, page, limit int64) ([]domain.Chat, error)
	// ParticipantChatIDs every chat id the user is a member of
	ParticipantChatIDs(ctx context.Context, userID string) ([]string, error)
	// AppendMessage push the message id and move the last-message pointer in
	// one update, so concurrent sends never interleave partial writes
	AppendMessage(ctx context.Context, chatID, messageID string) error
	// AddParticipant $addToSet, no-op when already a member
	AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error)
	// RemoveParticipant $pull, no-op when absent
	RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error)
}

type mongoChatRepository struct {
	coll *mongo.Collection
}

// NewMongoChatRepository create a ChatRepository on mongo
func NewMongoChatRepository(db *mongo.Database) ChatRepository {
	return &mongoChatRepository{
		coll: db.Collection("chats"),
	}
}

func (r *mongoChatRepository) Insert(ctx context.Context, chat *domain.Chat) error {
	_, err := r.coll.InsertOne(ctx, chat)
	return err
}

func (r *mongoChatRepository) FindByID(ctx context.Context, chatID string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.coll.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *mongoChatRepository) FindByParticipant(ctx context.Context, userID string, page, limit int64) ([]domain.Chat, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	var chats []domain.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *mongoChatRepository) ParticipantChatIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := r.coll.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func (r *mongoChatRepository) AppendMessage(ctx context.Context, chatID, messageID string) error {
	update := bson.M{
		"$push": bson.M{"messages": messageID},
		"$set":  bson.M{"last_message": messageID, "updated_at": time.Now().Unix()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrChatNotFound
	}
	return nil
}

func (r *mongoChatRepository) AddParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	update := bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().Unix()},
	}
	return r.findOneAndUpdate(ctx, chatID, update)
}

func (r *mongoChatRepository) RemoveParticipant(ctx context.Context, chatID, userID string) (*domain.Chat, error) {
	update := bson.M{
		"$pull": bson.M{"participants": userID},
		"$set":  bson.M{"updated_at": time.Now().Unix()},
	}
	return r.findOneAndUpdate(ctx, chatID, update)
}

func (r *mongoChatRepository) findOneAndUpdate(ctx context.Context, chatID string, update bson.M) (*domain.Chat, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var chat domain.Chat
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": chatID}, update, opts).Decode(&chat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrChatNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}
