package amqp

import (
	"testing"
)

func TestEntryCommittedMessageRoundTrip(t *testing.T) {
	msg := NewEntryCommittedMessage(42, 3)

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := EntryCommittedMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != 42 || decoded.Version != 3 {
		t.Errorf("decoded = %+v, want id=42 version=3", decoded)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp missing after round trip")
	}
}

func TestEntryCommittedMessageFromJSONMalformed(t *testing.T) {
	if _, err := EntryCommittedMessageFromJSON([]byte("{broken")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
