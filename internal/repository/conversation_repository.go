package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"snackreach/internal/models"
)

type ConversationRepository interface {
	FindOrCreate(ctx context.Context, userA string, userB string) (*models.Conversation, error)
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	ListMessages(ctx context.Context, conversationID string, limit int, offset int) ([]models.Message, error)
	CreateMessage(ctx context.Context, message *models.Message) error
}

type conversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// orderPair returns the two user ids in lexical order, matching the
// participants_ordered constraint.
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, userA string, userB string) (*models.Conversation, error) {
	a, b := orderPair(userA, userB)

	query := `
		SELECT id, participant_a, participant_b, created_at, updated_at
		FROM conversations
		WHERE participant_a = $1 AND participant_b = $2
	`

	var c models.Conversation
	err := r.db.QueryRowContext(ctx, query, a, b).
		Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt)
	if err == nil {
		return &c, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	insert := `
		INSERT INTO conversations (id, participant_a, participant_b)
		VALUES ($1, $2, $3)
		ON CONFLICT (participant_a, participant_b) DO UPDATE SET updated_at = conversations.updated_at
		RETURNING id, participant_a, participant_b, created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, insert, uuid.NewString(), a, b).
		Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	query := `
		SELECT id, participant_a, participant_b, created_at, updated_at
		FROM conversations
		WHERE id = $1
	`

	var c models.Conversation
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `
		SELECT id, participant_a, participant_b, created_at, updated_at
		FROM conversations
		WHERE participant_a = $1 OR participant_b = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.ParticipantA, &c.ParticipantB, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, c)
	}

	return conversations, rows.Err()
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, limit int, offset int) ([]models.Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
	`

	args := []any{conversationID}
	argPos := 2
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, limit)
		argPos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (r *conversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, message.ID, message.ConversationID, message.SenderID, message.Body).Scan(&message.CreatedAt)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE conversations SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), message.ConversationID); err != nil {
		return err
	}

	return tx.Commit()
}
