// Package schedule derives a dentist's bookable time from their declared
// availability calendar and the bookings already held against them.
package schedule

import (
	"sort"
	"time"

	"github.com/dentaheal/booking-api/internal/apperr"
	"github.com/dentaheal/booking-api/internal/models"
)

// sameDay compares calendar days, ignoring the time-of-day component.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// slotContains reports whether the wall-clock time of t falls inside the
// half-open interval [slot.Start, slot.End). Slot bounds are "HH:MM".
func slotContains(slot models.TimeSlot, t time.Time) bool {
	hhmm := t.UTC().Format("15:04")
	return hhmm >= slot.Start && hhmm < slot.End
}

// FreeSlots returns the slots the dentist declared for date that are not
// occupied by an active booking on that date. A date with no availability
// entry yields an empty sequence, not an error.
func FreeSlots(dentist models.Dentist, bookings []models.Booking, date time.Time) []models.TimeSlot {
	var declared []models.TimeSlot
	for _, day := range dentist.Availability {
		if sameDay(day.Date, date) {
			declared = day.Slots
			break
		}
	}

	free := make([]models.TimeSlot, 0, len(declared))
	for _, slot := range declared {
		taken := false
		for _, b := range bookings {
			if !b.Status.Active() || b.DentistID != dentist.ID {
				continue
			}
			if sameDay(b.BookingDate, date) && slotContains(slot, b.BookingDate) {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}

// BookedDates returns every calendar day carrying at least one active
// booking for the dentist, in ascending order. Used to grey out days on the
// booking calendar without exposing slot-level detail.
func BookedDates(dentist models.Dentist, bookings []models.Booking) []time.Time {
	seen := make(map[string]time.Time)
	for _, b := range bookings {
		if !b.Status.Active() || b.DentistID != dentist.ID {
			continue
		}
		day := b.BookingDate.UTC().Truncate(24 * time.Hour)
		seen[day.Format("2006-01-02")] = day
	}

	dates := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// ValidateCalendar checks a declared availability calendar at write time:
// every slot must be well-formed "HH:MM" with start before end.
func ValidateCalendar(calendar []models.AvailabilityDate) error {
	for _, day := range calendar {
		for _, slot := range day.Slots {
			if err := validateSlot(slot); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateSlot(slot models.TimeSlot) error {
	if _, err := time.Parse("15:04", slot.Start); err != nil {
		return apperr.Validation("invalid slot start %q, want HH:MM", slot.Start)
	}
	if _, err := time.Parse("15:04", slot.End); err != nil {
		return apperr.Validation("invalid slot end %q, want HH:MM", slot.End)
	}
	if slot.Start >= slot.End {
		return apperr.Validation("slot start %s must be before end %s", slot.Start, slot.End)
	}
	return nil
}
