package amqp

import (
	"encoding/json"
	"time"
)

// EntryCommittedMessage is a lightweight notification that a time entry was
// committed. It carries only the ID and version; the consumer fetches the
// full entry from the database.
type EntryCommittedMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryCommittedMessage creates a new message with just ID and version.
func NewEntryCommittedMessage(id, version int64) *EntryCommittedMessage {
	return &EntryCommittedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EntryCommittedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryCommittedMessageFromJSON creates a message from JSON bytes.
func EntryCommittedMessageFromJSON(data []byte) (*EntryCommittedMessage, error) {
	var msg EntryCommittedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
