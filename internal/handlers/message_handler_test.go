package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"snackreach/internal/models"
	"snackreach/internal/repository"
)

type mockConversationRepo struct {
	findOrCreateFn  func(ctx context.Context, userA, userB string) (*models.Conversation, error)
	getByIDFn       func(ctx context.Context, id string) (*models.Conversation, error)
	listForUserFn   func(ctx context.Context, userID string) ([]models.Conversation, error)
	listMessagesFn  func(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error)
	createMessageFn func(ctx context.Context, message *models.Message) error
}

var _ repository.ConversationRepository = (*mockConversationRepo)(nil)

func (m *mockConversationRepo) FindOrCreate(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	return m.findOrCreateFn(ctx, userA, userB)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockConversationRepo) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	return m.listForUserFn(ctx, userID)
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	return m.listMessagesFn(ctx, conversationID, limit, offset)
}

func (m *mockConversationRepo) CreateMessage(ctx context.Context, message *models.Message) error {
	return m.createMessageFn(ctx, message)
}

type mockUserRepo struct {
	getByIDFn            func(ctx context.Context, id string) (*models.User, error)
	listFn               func(ctx context.Context, limit, offset int) ([]models.User, error)
	updateProfileFn      func(ctx context.Context, id string, req *models.UpdateUserRequest) error
	updatePasswordHashFn func(ctx context.Context, userID, passwordHash string) error
	deleteFn             func(ctx context.Context, id string) error
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id string, req *models.UpdateUserRequest) error {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error {
	if m.updatePasswordHashFn != nil {
		return m.updatePasswordHashFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

const (
	senderUUID    = "3f2b8a10-6d4e-4c8b-8f1a-9e7d5c3b2a10"
	recipientUUID = "9c1d7e42-5b3a-4f6d-a2c8-0e8f6d4b3c21"
)

func TestStartConversationWithSelfRejected(t *testing.T) {
	h := NewMessageHandler(&mockConversationRepo{}, &mockUserRepo{})

	req := authenticatedRequest(http.MethodPost, "/api/v1/conversations", senderUUID, map[string]string{
		"recipient_id": senderUUID,
	})
	rr := httptest.NewRecorder()
	h.StartConversation(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStartConversationUnknownRecipient(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return nil, fmt.Errorf("user not found")
		},
	}
	h := NewMessageHandler(&mockConversationRepo{}, users)

	req := authenticatedRequest(http.MethodPost, "/api/v1/conversations", senderUUID, map[string]string{
		"recipient_id": recipientUUID,
	})
	rr := httptest.NewRecorder()
	h.StartConversation(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestStartConversationReusesExistingThread(t *testing.T) {
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "other@example.com"}, nil
		},
	}
	conversations := &mockConversationRepo{
		findOrCreateFn: func(ctx context.Context, userA, userB string) (*models.Conversation, error) {
			if userA != senderUUID || userB != recipientUUID {
				t.Fatalf("unexpected pair %s / %s", userA, userB)
			}
			return &models.Conversation{ID: "c-1", ParticipantA: recipientUUID, ParticipantB: senderUUID}, nil
		},
	}
	h := NewMessageHandler(conversations, users)

	req := authenticatedRequest(http.MethodPost, "/api/v1/conversations", senderUUID, map[string]string{
		"recipient_id": recipientUUID,
	})
	rr := httptest.NewRecorder()
	h.StartConversation(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSendMessageForbiddenForOutsider(t *testing.T) {
	conversations := &mockConversationRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Conversation, error) {
			return &models.Conversation{ID: id, ParticipantA: "other-a", ParticipantB: "other-b"}, nil
		},
	}
	h := NewMessageHandler(conversations, &mockUserRepo{})

	req := withURLParam(authenticatedRequest(http.MethodPost, "/api/v1/conversations/c-1/messages", senderUUID, map[string]string{
		"body": "hello",
	}), "id", "c-1")
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSendMessageStampsSender(t *testing.T) {
	var sent *models.Message
	conversations := &mockConversationRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Conversation, error) {
			return &models.Conversation{ID: id, ParticipantA: recipientUUID, ParticipantB: senderUUID}, nil
		},
		createMessageFn: func(ctx context.Context, message *models.Message) error {
			message.ID = "m-1"
			sent = message
			return nil
		},
	}
	h := NewMessageHandler(conversations, &mockUserRepo{})

	req := withURLParam(authenticatedRequest(http.MethodPost, "/api/v1/conversations/c-1/messages", senderUUID, map[string]string{
		"body": "hello",
	}), "id", "c-1")
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if sent == nil || sent.SenderID != senderUUID || sent.ConversationID != "c-1" {
		t.Fatalf("message not stamped with sender and conversation: %+v", sent)
	}
}

func TestListMessagesNotFound(t *testing.T) {
	conversations := &mockConversationRepo{
		getByIDFn: func(ctx context.Context, id string) (*models.Conversation, error) {
			return nil, sql.ErrNoRows
		},
	}
	h := NewMessageHandler(conversations, &mockUserRepo{})

	req := withURLParam(authenticatedRequest(http.MethodGet, "/api/v1/conversations/missing/messages", senderUUID, nil), "id", "missing")
	rr := httptest.NewRecorder()
	h.ListMessages(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
