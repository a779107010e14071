package dao

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"smartTextVision/models"
)

const messageColumns = `id, sender_id, receiver_id, timestamp, content`

type MessageDAO struct {
	db      *sql.DB
	timeout time.Duration
}

func NewMessageDAO(db *sql.DB) *MessageDAO {
	return &MessageDAO{db: db, timeout: 3 * time.Second}
}

// InsertMessage stores m and returns the generated ID. A zero timestamp is set to now.
func (d *MessageDAO) InsertMessage(ctx context.Context, m *models.Message) (int64, error) {
	if m == nil {
		return 0, errors.New("nil message")
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO messages (sender_id, receiver_id, timestamp, content) VALUES (?, ?, ?, ?)`,
		m.SenderID, m.ReceiverID, m.Timestamp.UnixMilli(), m.Content)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = id
	return id, nil
}

// GetChatHistory returns the messages exchanged between two users in either direction,
// oldest first.
func (d *MessageDAO) GetChatHistory(ctx context.Context, userID, otherUserID int64) ([]models.Message, error) {
	return d.query(ctx, `SELECT `+messageColumns+` FROM messages
        WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
        ORDER BY timestamp, id`, userID, otherUserID, otherUserID, userID)
}

// GetAllMessages returns every stored message, oldest first.
func (d *MessageDAO) GetAllMessages(ctx context.Context) ([]models.Message, error) {
	return d.query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY timestamp, id`)
}

func (d *MessageDAO) query(ctx context.Context, q string, args ...any) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*d.timeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Message
	for rows.Next() {
		var (
			m  models.Message
			ts int64
		)
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &ts, &m.Content); err != nil {
			return nil, err
		}
		m.Timestamp = time.UnixMilli(ts)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
