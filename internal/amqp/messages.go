package amqp

import (
	"encoding/json"
	"time"
)

// Message types routed through the sync queue.
const (
	TypeExpenseSync   = "expense.sync"
	TypeExpenseDelete = "expense.delete"
)

// ExpenseSyncMessage asks the worker to export one expense to the spreadsheet.
// It carries only the row id and owner; the worker fetches the full record
// from the database.
type ExpenseSyncMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ExpenseDeleteMessage asks the worker to drop an exported expense row. The
// record is already gone locally, so the id is all the worker gets.
type ExpenseDeleteMessage struct {
	Type      string    `json:"type"`
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// envelope is used to sniff the message type before full decoding.
type envelope struct {
	Type string `json:"type"`
}

// NewExpenseSyncMessage creates a sync message for an expense row.
func NewExpenseSyncMessage(id int64, userID string) *ExpenseSyncMessage {
	return &ExpenseSyncMessage{
		Type:      TypeExpenseSync,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// NewExpenseDeleteMessage creates a delete message for an expense row.
func NewExpenseDeleteMessage(id int64, userID string) *ExpenseDeleteMessage {
	return &ExpenseDeleteMessage{
		Type:      TypeExpenseDelete,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

func (m *ExpenseSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *ExpenseDeleteMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func messageType(data []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", err
	}
	return env.Type, nil
}

func ExpenseSyncMessageFromJSON(data []byte) (*ExpenseSyncMessage, error) {
	var msg ExpenseSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func ExpenseDeleteMessageFromJSON(data []byte) (*ExpenseDeleteMessage, error) {
	var msg ExpenseDeleteMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
