package reservation

import "time"

// Occupant is the slice of a booking the occupancy rule looks at. A zero CreatedAt
// means the creation instant is unknown.
type Occupant struct {
	Slot      string
	Status    Status
	CreatedAt time.Time
}

// HoldPolicy decides how long a pending booking keeps its slot. A zero Expiration
// means a hold never expires on its own.
type HoldPolicy struct {
	Expiration time.Duration
}

func NewHoldPolicy(minutes int) HoldPolicy {
	if minutes < 0 {
		minutes = 0
	}
	return HoldPolicy{Expiration: time.Duration(minutes) * time.Minute}
}

// Occupies reports whether o blocks its slot at now.
func (p HoldPolicy) Occupies(o Occupant, now time.Time) bool {
	switch o.Status {
	case StatusPaid, StatusCompleted:
		return true
	case StatusCanceled:
		return false
	}

	if p.Expiration <= 0 || o.CreatedAt.IsZero() {
		return true
	}
	return now.Sub(o.CreatedAt) <= p.Expiration
}

// OccupiedSlots returns the set of slots blocked by any occupant.
func (p HoldPolicy) OccupiedSlots(occupants []Occupant, now time.Time) map[string]bool {
	occupied := make(map[string]bool)
	for _, o := range occupants {
		if occupied[o.Slot] {
			continue
		}
		if p.Occupies(o, now) {
			occupied[o.Slot] = true
		}
	}
	return occupied
}

// SlotOccupied reports whether any occupant blocks slot.
func (p HoldPolicy) SlotOccupied(occupants []Occupant, slot string, now time.Time) bool {
	for _, o := range occupants {
		if o.Slot == slot && p.Occupies(o, now) {
			return true
		}
	}
	return false
}
