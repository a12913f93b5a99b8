package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from    MessageStatus
		to      MessageStatus
		allowed bool
	}{
		{StatusSent, StatusDelivered, true},
		{StatusSent, StatusRead, true},
		{StatusDelivered, StatusRead, true},
		// no backwards moves
		{StatusDelivered, StatusSent, false},
		{StatusRead, StatusSent, false},
		{StatusRead, StatusDelivered, false},
		// no self moves
		{StatusSent, StatusSent, false},
		{StatusDelivered, StatusDelivered, false},
		{StatusRead, StatusRead, false},
		// unknown statuses never transition
		{MessageStatus("archived"), StatusRead, false},
		{StatusSent, MessageStatus("archived"), false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransition(c.to),
			"transition %s -> %s", c.from, c.to)
	}
}

func TestMessageStatus_Valid(t *testing.T) {
	assert.True(t, StatusSent.Valid())
	assert.True(t, StatusDelivered.Valid())
	assert.True(t, StatusRead.Valid())
	assert.False(t, MessageStatus("").Valid())
	assert.False(t, MessageStatus("seen").Valid())
}

func TestMessage_HasContent(t *testing.T) {
	assert.False(t, (&Message{}).HasContent())
	assert.True(t, (&Message{Body: "hi"}).HasContent())
	assert.True(t, (&Message{Media: "messages/abc.png"}).HasContent())
}
