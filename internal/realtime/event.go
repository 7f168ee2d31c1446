// Package realtime delivers row change events to subscribed clients.
package realtime

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

const (
	TableProfiles     = "profiles"
	TableProjects     = "projects"
	TableCertificates = "certificates"
	TableDSAProblems  = "dsa_problems"
)

// Event describes one row change. Record is the new row for INSERT and UPDATE
// and the removed row for DELETE.
type Event struct {
	Table   string          `json:"table"`
	Type    EventType       `json:"type"`
	Key     string          `json:"key"`
	OwnerID string          `json:"owner_id"`
	Record  json.RawMessage `json:"record,omitempty"`
	At      time.Time       `json:"at"`
}

// Row is implemented by every persisted model that can be broadcast.
type Row interface {
	OwnerID() string
	RowKey() string
}

func NewEvent(table string, typ EventType, row Row) (Event, error) {
	record, err := json.Marshal(row)
	if err != nil {
		return Event{}, fmt.Errorf("failed to encode %s record: %w", table, err)
	}

	return Event{
		Table:   table,
		Type:    typ,
		Key:     row.RowKey(),
		OwnerID: row.OwnerID(),
		Record:  record,
		At:      time.Now().UTC(),
	}, nil
}

// Filter selects which events a subscriber receives. Empty fields match anything.
type Filter struct {
	Table   string `json:"table"`
	OwnerID string `json:"owner_id"`
}

func (f Filter) Match(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.OwnerID != "" && f.OwnerID != e.OwnerID {
		return false
	}
	return true
}
