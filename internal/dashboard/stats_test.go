package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printer-repair-backend/internal/model"
)

func TestProjectStats(t *testing.T) {
	testCases := []struct {
		name        string
		bookings    []model.Booking
		technicians []model.Technician
		expected    Stats
	}{
		{
			name:     "empty inputs",
			expected: Stats{},
		},
		{
			name: "counts statuses and flat revenue",
			bookings: []model.Booking{
				{ID: "b1", Status: model.StatusPending},
				{ID: "b2", Status: model.StatusPending},
				{ID: "b3", Status: model.StatusConfirmed},
				{ID: "b4", Status: model.StatusInProgress},
				{ID: "b5", Status: model.StatusCompleted},
				{ID: "b6", Status: model.StatusCompleted},
				{ID: "b7", Status: model.StatusCompleted},
				{ID: "b8", Status: model.StatusCancelled},
				{ID: "b9", Status: model.StatusPending},
				{ID: "b10", Status: model.StatusConfirmed},
			},
			expected: Stats{
				TotalBookings:     10,
				PendingBookings:   3,
				CompletedBookings: 3,
				TotalRevenue:      300000,
				ThisMonthRevenue:  150000,
			},
		},
		{
			name: "active technicians only",
			technicians: []model.Technician{
				{ID: "t1", IsActive: true},
				{ID: "t2", IsActive: false},
			},
			expected: Stats{ActiveTechnicians: 1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ProjectStats(tc.bookings, tc.technicians))
		})
	}
}

func TestProjectStatsDeterministic(t *testing.T) {
	bookings := []model.Booking{
		{ID: "b1", Status: model.StatusCompleted},
		{ID: "b2", Status: model.StatusPending},
	}
	technicians := []model.Technician{{ID: "t1", IsActive: true}}

	first := ProjectStats(bookings, technicians)
	second := ProjectStats(bookings, technicians)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.CompletedBookings)
}
