package models

import "time"

// Message is a single chat message between two users.
// Timestamp is persisted as unix milliseconds.
type Message struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Timestamp  time.Time `db:"timestamp" json:"timestamp"`
	Content    string    `db:"content" json:"content"`
}
