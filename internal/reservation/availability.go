package reservation

import (
	"sort"
	"time"
)

// WorkingHours maps a weekday (time.Weekday, Sunday = 0) to the slot start times
// offered that day. JSON keys are the weekday numbers.
type WorkingHours map[time.Weekday][]string

// SlotsFor returns the ordered candidate slots for the date's weekday. Duplicate and
// malformed values are dropped. A weekday without configuration yields an empty list.
func (w WorkingHours) SlotsFor(date time.Time) []string {
	configured := w[date.Weekday()]
	if len(configured) == 0 {
		return []string{}
	}

	type candidate struct {
		slot   string
		offset time.Duration
	}
	seen := make(map[string]bool, len(configured))
	candidates := make([]candidate, 0, len(configured))
	for _, s := range configured {
		offset, err := ParseSlot(s)
		if err != nil {
			continue
		}
		canonical := formatOffset(offset)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		candidates = append(candidates, candidate{slot: canonical, offset: offset})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].offset < candidates[j].offset })

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.slot
	}
	return out
}

// Offers reports whether slot is configured for the date's weekday.
func (w WorkingHours) Offers(date time.Time, slot string) bool {
	for _, s := range w.SlotsFor(date) {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotState is one entry of an availability answer.
type SlotState struct {
	Slot     string `json:"slot"`
	Occupied bool   `json:"occupied"`
}

// Availability marks each candidate slot with its occupancy.
func Availability(candidates []string, occupied map[string]bool) []SlotState {
	out := make([]SlotState, len(candidates))
	for i, s := range candidates {
		out[i] = SlotState{Slot: s, Occupied: occupied[s]}
	}
	return out
}

// AllOccupied is the fail-safe answer when occupancy cannot be read.
func AllOccupied(candidates []string) []SlotState {
	out := make([]SlotState, len(candidates))
	for i, s := range candidates {
		out[i] = SlotState{Slot: s, Occupied: true}
	}
	return out
}

func formatOffset(d time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(SlotLayout)
}
