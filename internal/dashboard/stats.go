package dashboard

import "printer-repair-backend/internal/model"

// Flat per-completed-booking revenue estimates, carried over from the
// original pricing placeholder. "This month" is not calendar-windowed; it is
// a second flat rate under the same name.
const (
	revenuePerCompleted      = 100000
	monthRevenuePerCompleted = 50000
)

// Stats is the derived counter block shown at the top of the dashboard. It is
// recomputed from full snapshots, never incrementally mutated.
type Stats struct {
	TotalBookings     int   `json:"total_bookings"`
	PendingBookings   int   `json:"pending_bookings"`
	CompletedBookings int   `json:"completed_bookings"`
	TotalRevenue      int64 `json:"total_revenue"`
	ThisMonthRevenue  int64 `json:"this_month_revenue"`
	ActiveTechnicians int   `json:"active_technicians"`
}

// ProjectStats derives the aggregate counters from the current booking and
// technician snapshots. Pure and deterministic.
func ProjectStats(bookings []model.Booking, technicians []model.Technician) Stats {
	var stats Stats
	stats.TotalBookings = len(bookings)
	for _, b := range bookings {
		switch b.Status {
		case model.StatusPending:
			stats.PendingBookings++
		case model.StatusCompleted:
			stats.CompletedBookings++
		}
	}
	stats.TotalRevenue = int64(stats.CompletedBookings) * revenuePerCompleted
	stats.ThisMonthRevenue = int64(stats.CompletedBookings) * monthRevenuePerCompleted
	for _, t := range technicians {
		if t.IsActive {
			stats.ActiveTechnicians++
		}
	}
	return stats
}
