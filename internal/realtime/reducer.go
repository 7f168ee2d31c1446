package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/templui/portfolio/internal/model"
)

// ReduceProfile applies a profiles event to the current local copy. INSERT and
// UPDATE replace it with the event's record and DELETE clears it. Events for
// other tables leave current untouched.
func ReduceProfile(current *model.Profile, e Event) (*model.Profile, error) {
	if e.Table != TableProfiles {
		return current, nil
	}

	switch e.Type {
	case EventInsert, EventUpdate:
		var next model.Profile
		if err := json.Unmarshal(e.Record, &next); err != nil {
			return current, fmt.Errorf("failed to decode profile record: %w", err)
		}
		return &next, nil
	case EventDelete:
		return nil, nil
	default:
		return current, fmt.Errorf("unknown event type %q", e.Type)
	}
}

// ReduceList applies a row event to a newest-first list. T is a pointer model
// such as *model.Project.
func ReduceList[T Row](rows []T, e Event) ([]T, error) {
	idx := -1
	for i, r := range rows {
		if r.RowKey() == e.Key {
			idx = i
			break
		}
	}

	switch e.Type {
	case EventInsert, EventUpdate:
		var row T
		if err := json.Unmarshal(e.Record, &row); err != nil {
			return rows, fmt.Errorf("failed to decode %s record: %w", e.Table, err)
		}
		if idx >= 0 {
			out := append([]T(nil), rows...)
			out[idx] = row
			return out, nil
		}
		return append([]T{row}, rows...), nil
	case EventDelete:
		if idx < 0 {
			return rows, nil
		}
		out := make([]T, 0, len(rows)-1)
		out = append(out, rows[:idx]...)
		return append(out, rows[idx+1:]...), nil
	default:
		return rows, fmt.Errorf("unknown event type %q", e.Type)
	}
}
