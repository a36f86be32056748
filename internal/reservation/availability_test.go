package reservation

import (
	"reflect"
	"testing"
	"time"
)

var saturday = time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)

func TestSlotsFor(t *testing.T) {
	if saturday.Weekday() != time.Saturday {
		t.Fatalf("fixture date is %s, want Saturday", saturday.Weekday())
	}

	hours := WorkingHours{
		time.Saturday: {"18:00", "10:30", "14:00", "10:30", "9:00", "bogus"},
		time.Monday:   {},
	}

	got := hours.SlotsFor(saturday)
	want := []string{"09:00", "10:30", "14:00", "18:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotsFor(saturday)=%v, want %v", got, want)
	}

	monday := saturday.AddDate(0, 0, 2)
	if got := hours.SlotsFor(monday); got == nil || len(got) != 0 {
		t.Fatalf("SlotsFor(monday)=%#v, want empty non-nil", got)
	}

	sunday := saturday.AddDate(0, 0, 1)
	if got := hours.SlotsFor(sunday); len(got) != 0 {
		t.Fatalf("SlotsFor(sunday)=%v, want empty", got)
	}
}

func TestOffers(t *testing.T) {
	hours := WorkingHours{time.Saturday: {"10:30", "14:00"}}

	cases := []struct {
		slot string
		want bool
	}{
		{"10:30", true},
		{"14:00", true},
		{"18:00", false},
		{"", false},
	}
	for _, tt := range cases {
		if got := hours.Offers(saturday, tt.slot); got != tt.want {
			t.Fatalf("Offers(%q)=%v, want %v", tt.slot, got, tt.want)
		}
	}
	if hours.Offers(saturday.AddDate(0, 0, 1), "10:30") {
		t.Fatal("Offers on an unconfigured weekday should be false")
	}
}

func TestAvailability(t *testing.T) {
	candidates := []string{"10:30", "14:00", "18:00"}

	got := Availability(candidates, map[string]bool{"14:00": true, "20:00": true})
	want := []SlotState{
		{Slot: "10:30"},
		{Slot: "14:00", Occupied: true},
		{Slot: "18:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Availability=%v, want %v", got, want)
	}

	for _, s := range AllOccupied(candidates) {
		if !s.Occupied {
			t.Fatalf("AllOccupied left %s free", s.Slot)
		}
	}
}

func TestCanonicalSlot(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"10:30", "10:30", false},
		{"9:05", "09:05", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"10h30", "", true},
	}
	for _, tt := range cases {
		got, err := CanonicalSlot(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("CanonicalSlot(%q) err=%v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("CanonicalSlot(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCalendarSlotInstant(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, time.October, 17, 13, 0, 0, 0, time.UTC)
	cal := NewCalendar(FixedClock{At: now}, loc)

	at, err := cal.SlotInstant(saturday, "10:30")
	if err != nil {
		t.Fatalf("SlotInstant: %v", err)
	}
	if want := time.Date(2026, time.October, 17, 13, 30, 0, 0, time.UTC); !at.Equal(want) {
		t.Fatalf("SlotInstant=%s, want %s", at.UTC(), want)
	}

	late := NewCalendar(FixedClock{At: time.Date(2026, time.October, 18, 2, 0, 0, 0, time.UTC)}, loc)
	if got := late.Today(); !got.Equal(saturday) {
		t.Fatalf("Today()=%s, want %s", got, saturday)
	}
}
