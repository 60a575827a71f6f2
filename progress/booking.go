package progress

import (
	"github.com/warp/studio-engine/studio"
)

// MediumProgress is the progress of one medium across a booking's events.
type MediumProgress struct {
	Medium  studio.Medium
	Counts  Counts
	Percent int
}

// BookingProgress is the derived production view of a booking.
type BookingProgress struct {
	BookingID studio.BookingID
	Status    Status
	Percent   int
	Tier      Tier
	Media     []MediumProgress
	// PendingData counts assignments whose footage has not been handed in.
	PendingData int
	Events      int
}

// Summarize derives status, percent and per-medium counts for a booking.
func Summarize(booking studio.Booking, snap studio.Snapshot, today studio.Date) BookingProgress {
	events := snap.EventsForBooking(booking.ID)
	workflows := snap.WorkflowsForEvents(events)

	byMedium := make(map[studio.Medium]*Counts, len(studio.Media))
	for _, m := range studio.Media {
		byMedium[m] = &Counts{}
	}
	for _, w := range workflows {
		for _, cl := range w.Checklists() {
			for _, s := range cl.Steps() {
				byMedium[cl.Medium].add(s.State)
			}
		}
	}

	media := make([]MediumProgress, 0, len(studio.Media))
	for _, m := range studio.Media {
		c := *byMedium[m]
		media = append(media, MediumProgress{Medium: m, Counts: c, Percent: percentOf(c)})
	}

	eventIDs := make(map[studio.EventID]bool, len(events))
	for _, e := range events {
		eventIDs[e.ID] = true
	}
	pending := 0
	for _, a := range snap.Assignments {
		if eventIDs[a.EventID] && !a.DataReceived {
			pending++
		}
	}

	pct := Percent(workflows)
	return BookingProgress{
		BookingID:   booking.ID,
		Status:      BookingStatus(events, workflows, today),
		Percent:     pct,
		Tier:        TierFor(pct),
		Media:       media,
		PendingData: pending,
		Events:      len(events),
	}
}
