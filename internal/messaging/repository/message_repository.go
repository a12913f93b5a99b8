package repository

import (
	"context"
	"errors"
	"time"

	"social_messaging_service/internal/messaging/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition message store
type MessageRepository interface {
	// Insert persist a new message
	Insert(ctx context.Context, msg *domain.Message) error
	// FindByID find one message by id
	FindByID(ctx context.Context, id string) (*domain.Message, error)
	// FindByChat list a chat's messages in creation order
	FindByChat(ctx context.Context, chatID string) ([]domain.Message, error)
	// FindByChats list messages across chats, newest first
	FindByChats(ctx context.Context, chatIDs []string) ([]domain.Message, error)
	// Search find messages in the given chats whose body matches query
	Search(ctx context.Context, chatIDs []string, query string) ([]domain.Message, error)
	// UpdateStatus advance a message's status. The update is guarded: the
	// filter only matches statuses the transition is allowed from, so an
	// out-of-order request fails with ErrInvalidStatus instead of being
	// clamped or rewound.
	UpdateStatus(ctx context.Context, id string, next domain.MessageStatus) (*domain.Message, error)
	// SetMediaVisibility soft-delete toggle for the attached media
	SetMediaVisibility(ctx context.Context, id string, visible bool) (*domain.Message, error)
}

type mongoMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository on mongo
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *mongoMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	_, err := r.coll.InsertOne(ctx, msg)
	return err
}

func (r *mongoMessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *mongoMessageRepository) FindByChat(ctx context.Context, chatID string) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"chat": chatID}, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mongoMessageRepository) FindByChats(ctx context.Context, chatIDs []string) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cur, err := r.coll.Find(ctx, bson.M{"chat": bson.M{"$in": chatIDs}}, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mongoMessageRepository) Search(ctx context.Context, chatIDs []string, query string) ([]domain.Message, error) {
	filter := bson.M{
		"chat":    bson.M{"$in": chatIDs},
		"message": bson.M{"$regex": primitive.Regex{Pattern: query, Options: "i"}},
	}
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []domain.Message
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *mongoMessageRepository) UpdateStatus(ctx context.Context, id string, next domain.MessageStatus) (*domain.Message, error) {
	if !next.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	// statuses the transition is allowed from
	var from []domain.MessageStatus
	for _, s := range []domain.MessageStatus{domain.StatusSent, domain.StatusDelivered, domain.StatusRead} {
		if s.CanTransition(next) {
			from = append(from, s)
		}
	}

	filter := bson.M{"_id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": next, "updated_at": time.Now().Unix()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg domain.Message
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// distinguish a missing message from a forbidden transition
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, domain.ErrInvalidStatus
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *mongoMessageRepository) SetMediaVisibility(ctx context.Context, id string, visible bool) (*domain.Message, error) {
	update := bson.M{"$set": bson.M{"is_media_visible": visible, "updated_at": time.Now().Unix()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var msg domain.Message
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&msg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
