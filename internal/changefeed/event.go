package changefeed

import (
	"encoding/json"
	"fmt"
)

// Op is the kind of row change an event carries.
type Op string

const (
	OpInsert  Op = "INSERT"
	OpUpdate  Op = "UPDATE"
	OpDelete  Op = "DELETE"
	OpUnknown Op = "UNKNOWN"
)

// Tables the dashboard subscribes to.
const (
	TableBookings    = "service_bookings"
	TableTechnicians = "technicians"
	TableBrands      = "printer_brands"
	TableModels      = "printer_models"
	TableCategories  = "problem_categories"
	TableProblems    = "problems"
)

// Event is a normalized row-change notification. Row payloads stay raw JSON;
// consumers decode what they need and the dashboard never patches rows from
// them, it refetches.
type Event struct {
	Table string          `json:"table"`
	Op    Op              `json:"op"`
	New   json.RawMessage `json:"new,omitempty"`
	Old   json.RawMessage `json:"old,omitempty"`
}

// NewRowEvent builds an event for a freshly mutated row. For deletes pass the
// removed row so consumers still see its identity.
func NewRowEvent(table string, op Op, row any) Event {
	ev := Event{Table: table, Op: op}
	if row != nil {
		raw, err := json.Marshal(row)
		if err == nil {
			if op == OpDelete {
				ev.Old = raw
			} else {
				ev.New = raw
			}
		}
	}
	return ev
}

// RowID extracts the row identity from the event payload, preferring the new
// row. Returns "" when the payload carries none.
func (e Event) RowID() string {
	src := e.New
	if len(src) == 0 {
		src = e.Old
	}
	if len(src) == 0 {
		return ""
	}
	var row struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(src, &row); err != nil {
		return ""
	}
	return row.ID
}

// decodeEvent parses and validates a wire payload. Malformed payloads are
// rejected here so nothing untyped travels further in.
func decodeEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("malformed change event: %w", err)
	}
	if ev.Table == "" {
		return Event{}, fmt.Errorf("change event missing table")
	}
	switch ev.Op {
	case OpInsert, OpUpdate, OpDelete:
	default:
		ev.Op = OpUnknown
	}
	return ev, nil
}
