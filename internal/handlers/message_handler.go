package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"snackreach/internal/middleware"
	"snackreach/internal/models"
	"snackreach/internal/repository"
)

type MessageHandler struct {
	conversations repository.ConversationRepository
	users         repository.UserRepository
	validator     *validator.Validate
}

func NewMessageHandler(conversations repository.ConversationRepository, users repository.UserRepository) *MessageHandler {
	return &MessageHandler{
		conversations: conversations,
		users:         users,
		validator:     validator.New(),
	}
}

func isParticipant(c *models.Conversation, userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

func (h *MessageHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req models.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	userID := middleware.UserID(r.Context())
	if req.RecipientID == userID {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Cannot start a conversation with yourself")
		return
	}

	if _, err := h.users.GetByID(r.Context(), req.RecipientID); err != nil {
		if err.Error() == "user not found" {
			writeJSONError(w, http.StatusNotFound, "user_not_found", "Recipient not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "start_conversation_failed", "Failed to start conversation")
		return
	}

	conversation, err := h.conversations.FindOrCreate(r.Context(), userID, req.RecipientID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "start_conversation_failed", "Failed to start conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conversation)
}

func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.conversations.ListForUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_conversations_failed", "Failed to list conversations")
		return
	}

	if conversations == nil {
		conversations = []models.Conversation{}
	}

	writeJSON(w, http.StatusOK, conversations)
}

// loadOwnConversation fetches the conversation and enforces that the
// caller participates in it.
func (h *MessageHandler) loadOwnConversation(w http.ResponseWriter, r *http.Request) *models.Conversation {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Conversation ID is required")
		return nil
	}

	conversation, err := h.conversations.GetByID(r.Context(), id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSONError(w, http.StatusNotFound, "conversation_not_found", "Conversation not found")
			return nil
		}
		writeJSONError(w, http.StatusInternalServerError, "get_conversation_failed", "Failed to get conversation")
		return nil
	}

	if !isParticipant(conversation, middleware.UserID(r.Context())) {
		writeJSONError(w, http.StatusForbidden, "forbidden", "You are not part of this conversation")
		return nil
	}
	return conversation
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	conversation := h.loadOwnConversation(w, r)
	if conversation == nil {
		return
	}

	limit := intQueryParam(r, "limit", 50)
	offset := intQueryParam(r, "offset", 0)

	messages, err := h.conversations.ListMessages(r.Context(), conversation.ID, limit, offset)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "list_messages_failed", "Failed to list messages")
		return
	}

	if messages == nil {
		messages = []models.Message{}
	}

	writeJSON(w, http.StatusOK, messages)
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	conversation := h.loadOwnConversation(w, r)
	if conversation == nil {
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       middleware.UserID(r.Context()),
		Body:           req.Body,
	}

	if err := h.conversations.CreateMessage(r.Context(), message); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "send_message_failed", "Failed to send message")
		return
	}

	writeJSON(w, http.StatusCreated, message)
}
