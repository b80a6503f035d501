package entity

import "errors"

var (
	// Settings errors
	ErrInvalidSlashMode = errors.New("invalid slash command mode")
	ErrInvalidGuildID   = errors.New("invalid guild id")

	// Conversation errors
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrInvalidChannelID      = errors.New("invalid channel id")
	ErrInvalidRole           = errors.New("invalid message role")
)
