package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	want := time.Date(2024, 8, 15, 22, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
	}{
		{"time.Time", want},
		{"pointer", &want},
		{"unix int64", want.Unix()},
		{"unix float", float64(want.Unix())},
		{"calendar tuple", []int{2024, 8, 15, 22, 30, 0}},
		{"rfc3339", "2024-08-15T22:30:00Z"},
		{"iso no zone", "2024-08-15T22:30:00"},
		{"space separated", "2024-08-15 22:30:00"},
		{"minutes only", "2024-08-15 22:30"},
		{"unix string", "1723761000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%v) error: %v", tt.input, err)
			}
			if !got.Equal(want) {
				t.Errorf("Parse(%v) = %v, want %v", tt.input, got, want)
			}
		})
	}
}

func TestParseDateOnly(t *testing.T) {
	got, err := Parse("2024-08-15")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse(date-only) = %v, want %v", got, want)
	}
}

func TestParseShortTuple(t *testing.T) {
	got, err := Parse([]int{2024, 8, 15})
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse(3-tuple) = %v, want %v", got, want)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"garbage string", "not a time"},
		{"empty string", ""},
		{"bool", true},
		{"short tuple", []int{2024, 8}},
		{"long tuple", []int{2024, 8, 15, 22, 30, 0, 0}},
		{"bad month", []int{2024, 13, 1}},
		{"nil pointer", (*time.Time)(nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.input); !errors.Is(err, ErrInvalidTimeFormat) {
				t.Errorf("Parse(%v) error = %v, want ErrInvalidTimeFormat", tt.input, err)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	// 22:00 Paris wall clock in August is 20:00 UT.
	got, err := Convert("2024-08-15 22:00:00", "UTC", "Europe/Paris")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	want := time.Date(2024, 8, 15, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Convert = %v, want %v", got, want)
	}
}

func TestConvertDefaultFromUTC(t *testing.T) {
	got, err := Convert("2024-08-15 20:00:00", "Europe/Paris", "")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if got.Hour() != 22 {
		t.Errorf("Paris wall hour = %d, want 22", got.Hour())
	}
	want := time.Date(2024, 8, 15, 20, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Convert instant = %v, want %v", got.UTC(), want)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	orig := "2024-12-01 03:15:00"
	there, err := Convert(orig, "America/Santiago", "UTC")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	back, err := Convert(there.Format("2006-01-02 15:04:05"), "UTC", "America/Santiago")
	if err != nil {
		t.Fatalf("Convert back error: %v", err)
	}
	want, _ := Parse(orig)
	if !back.Equal(want) {
		t.Errorf("round trip = %v, want %v", back, want)
	}
}

func TestConvertUnknownZone(t *testing.T) {
	if _, err := Convert("2024-08-15", "Mars/Olympus", "UTC"); err == nil {
		t.Error("expected error for unknown zone")
	}
}

func TestNightAnchor(t *testing.T) {
	paris, _ := LoadZone("Europe/Paris")
	got := NightAnchor(2024, time.August, 15, paris)
	if got.Hour() != 23 || got.Minute() != 59 || got.Second() != 59 {
		t.Errorf("anchor clock = %v, want 23:59:59", got)
	}
	if got.UTC().Hour() != 21 {
		t.Errorf("anchor UT hour = %d, want 21", got.UTC().Hour())
	}
}

func TestNoonBeforeAfter(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name       string
		at         time.Time
		wantBefore time.Time
	}{
		{
			"afternoon",
			time.Date(2024, 8, 15, 18, 0, 0, 0, loc),
			time.Date(2024, 8, 15, 12, 0, 0, 0, loc),
		},
		{
			"morning",
			time.Date(2024, 8, 15, 3, 0, 0, 0, loc),
			time.Date(2024, 8, 14, 12, 0, 0, 0, loc),
		},
		{
			"exact noon",
			time.Date(2024, 8, 15, 12, 0, 0, 0, loc),
			time.Date(2024, 8, 15, 12, 0, 0, 0, loc),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := NoonBefore(tt.at, loc)
			if !before.Equal(tt.wantBefore) {
				t.Errorf("NoonBefore = %v, want %v", before, tt.wantBefore)
			}
			after := NoonAfter(tt.at, loc)
			if d := after.Sub(before); d != 24*time.Hour {
				t.Errorf("noon span = %v, want 24h", d)
			}
		})
	}
}

func TestSameCalendarDay(t *testing.T) {
	paris, _ := LoadZone("Europe/Paris")
	// 23:30 UT and 22:30 UT next day are different Paris days; 21:30 UT
	// and 23:30 UT the same evening are not.
	a := time.Date(2024, 8, 15, 21, 30, 0, 0, time.UTC)
	b := time.Date(2024, 8, 15, 23, 30, 0, 0, time.UTC)
	if SameCalendarDay(a, b, paris) {
		t.Error("21:30 and 23:30 UT cross Paris midnight, want different days")
	}
	if !SameCalendarDay(a, a.Add(10*time.Minute), paris) {
		t.Error("same evening reported as different days")
	}
}
