package changefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		expectErr bool
		expected  Event
	}{
		{
			name: "valid insert",
			body: `{"table":"service_bookings","op":"INSERT","new":{"id":"b1"}}`,
			expected: Event{
				Table: "service_bookings",
				Op:    OpInsert,
				New:   []byte(`{"id":"b1"}`),
			},
		},
		{
			name: "unrecognized op normalized to unknown",
			body: `{"table":"technicians","op":"TRUNCATE"}`,
			expected: Event{
				Table: "technicians",
				Op:    OpUnknown,
			},
		},
		{
			name:      "missing table rejected",
			body:      `{"op":"INSERT"}`,
			expectErr: true,
		},
		{
			name:      "malformed json rejected",
			body:      `{"table":`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ev, err := decodeEvent([]byte(tc.body))
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected.Table, ev.Table)
			assert.Equal(t, tc.expected.Op, ev.Op)
			assert.JSONEq(t, orEmpty(tc.expected.New), orEmpty(ev.New))
		})
	}
}

func orEmpty(raw []byte) string {
	if len(raw) == 0 {
		return `{}`
	}
	return string(raw)
}

func TestEventRowID(t *testing.T) {
	insert := Event{New: []byte(`{"id":"b1","status":"pending"}`)}
	assert.Equal(t, "b1", insert.RowID())

	del := Event{Old: []byte(`{"id":"m2"}`)}
	assert.Equal(t, "m2", del.RowID())

	assert.Equal(t, "", Event{}.RowID())
	assert.Equal(t, "", Event{New: []byte(`not json`)}.RowID())
}

func TestNewRowEvent(t *testing.T) {
	type row struct {
		ID string `json:"id"`
	}

	insert := NewRowEvent(TableBookings, OpInsert, row{ID: "b1"})
	assert.Equal(t, TableBookings, insert.Table)
	assert.JSONEq(t, `{"id":"b1"}`, string(insert.New))
	assert.Empty(t, insert.Old)

	del := NewRowEvent(TableModels, OpDelete, row{ID: "m1"})
	assert.JSONEq(t, `{"id":"m1"}`, string(del.Old))
	assert.Empty(t, del.New)
}
