package reservation

import "strings"

// Status is the closed set of booking states.
type Status uint8

const (
	StatusPending Status = iota
	StatusPaid
	StatusCompleted
	StatusCanceled
)

var statusNames = [...]string{
	StatusPending:   "pending",
	StatusPaid:      "paid",
	StatusCompleted: "completed",
	StatusCanceled:  "canceled",
}

var statusLabels = [...]string{
	StatusPending:   "Pending payment",
	StatusPaid:      "Paid",
	StatusCompleted: "Completed",
	StatusCanceled:  "Canceled",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return statusNames[StatusPending]
}

// Label is the human readable form shown in administrative listings.
func (s Status) Label() string {
	if int(s) < len(statusLabels) {
		return statusLabels[s]
	}
	return statusLabels[StatusPending]
}

// Terminal reports whether no further transition may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// ParseStatus decodes a stored value. Unknown values decode as pending.
func ParseStatus(v string) Status {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "paid":
		return StatusPaid
	case "completed":
		return StatusCompleted
	case "canceled", "cancelled":
		return StatusCanceled
	default:
		return StatusPending
	}
}

// LookupStatus is the strict counterpart of ParseStatus used for request filters.
func LookupStatus(v string) (Status, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, name := range statusNames {
		if name == v {
			return Status(i), true
		}
	}
	return StatusPending, false
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}
