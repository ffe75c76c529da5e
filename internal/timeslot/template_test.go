package timeslot

import (
	"testing"
	"time"
)

func TestIsTemplateTime(t *testing.T) {
	cases := []struct {
		tm       string
		expected bool
	}{
		{tm: "10:00", expected: true},
		{tm: "13:00", expected: true},
		{tm: "14:00", expected: false}, // перерыв
		{tm: "17:00", expected: true},
		{tm: "18:00", expected: false},
		{tm: "10:30", expected: false},
		{tm: "", expected: false},
	}

	for _, c := range cases {
		if got := IsTemplateTime(c.tm); got != c.expected {
			t.Errorf("IsTemplateTime(%q) = %v, want %v", c.tm, got, c.expected)
		}
	}
}

func TestDates(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

	dates := Dates(now, 3)

	expected := []string{"2024-06-03", "2024-06-04", "2024-06-05"}
	if len(dates) != len(expected) {
		t.Fatalf("expected %d dates, got %d", len(expected), len(dates))
	}
	for i, d := range expected {
		if dates[i] != d {
			t.Errorf("dates[%d] = %q, want %q", i, dates[i], d)
		}
	}
}

func TestInstant(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatal(err)
	}

	got, err := Instant("2024-06-03", "10:00", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2024, 6, 3, 10, 0, 0, 0, loc)
	if !got.Equal(expected) {
		t.Errorf("Instant = %v, want %v", got, expected)
	}

	if _, err := Instant("2024-13-40", "10:00", loc); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestWeekday(t *testing.T) {
	cases := []struct {
		date     string
		expected int
	}{
		{date: "2024-06-03", expected: 0}, // понедельник
		{date: "2024-06-07", expected: 4}, // пятница
		{date: "2024-06-08", expected: 5}, // суббота
		{date: "2024-06-09", expected: 6}, // воскресенье
	}

	for _, c := range cases {
		got, err := Weekday(c.date)
		if err != nil {
			t.Fatalf("Weekday(%q): %v", c.date, err)
		}
		if got != c.expected {
			t.Errorf("Weekday(%q) = %d, want %d", c.date, got, c.expected)
		}
	}

	if _, err := Weekday("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}
