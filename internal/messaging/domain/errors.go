package domain

import "errors"

var (
	// ErrChatNotFound no chat with that id
	ErrChatNotFound = errors.New("no chat found with that ID")
	// ErrMessageNotFound no message with that id
	ErrMessageNotFound = errors.New("no message found with that ID")
	// ErrNotAParticipant sender is not a member of the chat
	ErrNotAParticipant = errors.New("sender is not a participant of the chat")
	// ErrEmptyMessage a message needs body text or a media file
	ErrEmptyMessage = errors.New("either message content or media file is required")
	// ErrTooFewParticipants a chat needs at least two distinct participants
	ErrTooFewParticipants = errors.New("at least two participants are required")
	// ErrInvalidStatus status transition would move backward or is unknown
	ErrInvalidStatus = errors.New("invalid message status transition")
)
