package amqp

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventRowAppended EventType = "row_appended"
	EventRowUpdated  EventType = "row_updated"
	EventRowDeleted  EventType = "row_deleted"
)

// IsValid returns true if the event type is one the sync worker understands.
func (e EventType) IsValid() bool {
	switch e {
	case EventRowAppended, EventRowUpdated, EventRowDeleted:
		return true
	default:
		return false
	}
}

// RowEvent tells the sync worker that a record changed in the local mirror.
// It carries only the worksheet and record id; the worker reads the
// record's current cells from the mirror, so a stale event body can never
// overwrite a newer write.
type RowEvent struct {
	Event     EventType `json:"event"`
	Sheet     string    `json:"sheet"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRowEvent(event EventType, sheet, recordID string) *RowEvent {
	return &RowEvent{
		Event:     event,
		Sheet:     sheet,
		RecordID:  recordID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *RowEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RowEventFromJSON decodes an event from JSON bytes
func RowEventFromJSON(data []byte) (*RowEvent, error) {
	var event RowEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
