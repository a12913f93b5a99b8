package domain

import "social_messaging_service/pkg"

// ChatType definition chat type
type ChatType string

const (
	//ChatTypePrivate definition chat 1 on 1
	ChatTypePrivate ChatType = "private"
	//ChatTypeGroup definition chat group
	ChatTypeGroup ChatType = "group"
)

// MinParticipants a chat needs at least two distinct members
const MinParticipants = 2

// Chat definition one conversation record
type Chat struct {
	ID            string   `bson:"_id,omitempty" json:"id"`
	Participants  []string `bson:"participants" json:"participants"`
	Messages      []string `bson:"messages,omitempty" json:"messages,omitempty"`
	LastMessageID string   `bson:"last_message,omitempty" json:"last_message,omitempty"`
	ChatType      ChatType `bson:"chat_type" json:"chat_type"`
	CreatedAt     int64    `bson:"created_at" json:"created_at"`
	UpdatedAt     int64    `bson:"updated_at" json:"updated_at"`
}

// HasParticipant report userID is a member of the chat
func (c *Chat) HasParticipant(userID string) bool {
	return pkg.Contains(c.Participants, userID)
}

// OtherParticipants return every member except userID
func (c *Chat) OtherParticipants(userID string) []string {
	others := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		if p != userID {
			others = append(others, p)
		}
	}
	return others
}
