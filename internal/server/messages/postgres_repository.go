package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"telefeed/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

// Create inserts the message and returns it with the generated id and
// creation timestamp filled in. The unique index on message_id is the
// dedup guarantee under overlapping ingestion runs; a violation maps to
// common.ErrMessageExists.
func (r *PostgresRepository) Create(ctx context.Context, msg *Message) (*Message, error) {

	query :=
		`INSERT INTO telegram_messages (message_id, text, channel_username, message_date)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		msg.MessageID, msg.Text, msg.ChannelUsername, msg.MessageDate).
		Scan(&msg.ID, &msg.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.ErrMessageExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return msg, nil
}

func (r *PostgresRepository) GetByMessageID(ctx context.Context, messageID int64) (*Message, error) {
	query :=
		`SELECT id, message_id, text, channel_username, message_date, created_at FROM telegram_messages
		 WHERE message_id = $1
		 `

	msg := &Message{}
	err := r.db.QueryRowContext(ctx, query, messageID).
		Scan(&msg.ID, &msg.MessageID, &msg.Text, &msg.ChannelUsername, &msg.MessageDate, &msg.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return msg, nil
}

func (r *PostgresRepository) ExistsByMessageID(ctx context.Context, messageID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM telegram_messages WHERE message_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, messageID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error performing sql request: %v", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListByChannel(ctx context.Context, channelUsername string) ([]*Message, error) {
	query :=
		`SELECT id, message_id, text, channel_username, message_date, created_at FROM telegram_messages
		 WHERE channel_username = $1
		 ORDER BY message_date DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, channelUsername)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	result := []*Message{}
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(&msg.ID, &msg.MessageID, &msg.Text, &msg.ChannelUsername, &msg.MessageDate, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}
