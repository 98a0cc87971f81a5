package models

import "time"

// Conversation is the message thread between two users. Participants are
// stored as an ordered pair so one row exists per pair.
type Conversation struct {
	ID           string    `json:"id"`
	ParticipantA string    `json:"participant_a"`
	ParticipantB string    `json:"participant_b"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

type StartConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid4"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,max=4000"`
}
