package night

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/ephem"
)

func TestParseRA(t *testing.T) {
	tests := []struct {
		in      string
		wantDeg float64
	}{
		{"06:00:00", 90},
		{"12:30:00", 187.5},
		{"0:0:0", 0},
		{"180", 180},
		{"-90", 270}, // decimal degrees normalize into [0, 360)
		{"  05:34:31.9  ", 83.6329},
	}
	for _, tt := range tests {
		got, err := ParseRA(tt.in)
		if err != nil {
			t.Errorf("ParseRA(%q) error: %v", tt.in, err)
			continue
		}
		deg := math.Mod(astro.RadToDeg(got)+360, 360)
		want := math.Mod(tt.wantDeg+360, 360)
		if math.Abs(deg-want) > 1e-3 {
			t.Errorf("ParseRA(%q) = %.4f°, want %.4f°", tt.in, deg, want)
		}
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		in      string
		wantDeg float64
	}{
		{"+22:00:52.2", 22.0145},
		{"-05:22:30", -5.375},
		{"41.2692", 41.2692},
		{"-90", -90},
		{"0:30", 0.5},
	}
	for _, tt := range tests {
		got, err := ParseDec(tt.in)
		if err != nil {
			t.Errorf("ParseDec(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(astro.RadToDeg(got)-tt.wantDeg) > 1e-3 {
			t.Errorf("ParseDec(%q) = %.4f°, want %.4f°", tt.in, astro.RadToDeg(got), tt.wantDeg)
		}
	}
}

func TestParseCoordinateErrors(t *testing.T) {
	raBad := []string{"", "abc", "1:2:3:4", "25:00:00", "12:-3:00"}
	for _, in := range raBad {
		if _, err := ParseRA(in); !errors.Is(err, ErrMalformedCoordinate) {
			t.Errorf("ParseRA(%q) error = %v, want ErrMalformedCoordinate", in, err)
		}
	}
	decBad := []string{"", "north", "91", "-91:00:00", "10:61undef"}
	for _, in := range decBad {
		if _, err := ParseDec(in); !errors.Is(err, ErrMalformedCoordinate) {
			t.Errorf("ParseDec(%q) error = %v, want ErrMalformedCoordinate", in, err)
		}
	}
}

func TestNewFixedBody(t *testing.T) {
	b, err := NewFixedBody("Aldebaran", "04:35:55.2", "+16:30:33")
	if err != nil {
		t.Fatalf("NewFixedBody: %v", err)
	}
	if b.Kind != ephem.KindFixed || b.Name != "Aldebaran" {
		t.Errorf("body = %+v", b)
	}
	if _, err := NewFixedBody("bad", "nope", "+16:30:33"); err == nil {
		t.Error("expected error for bad RA")
	}
}

// nightlyObserver returns an OHP observer processed for 2024-08-15.
func nightlyObserver(t *testing.T) *Observer {
	t.Helper()
	o := testObserver(t, "ohp")
	if _, err := o.UpdateDate(DateOptions{UT: "2024-08-15"}); err != nil {
		t.Fatalf("UpdateDate: %v", err)
	}
	return o
}

func TestResolveEventsNormal(t *testing.T) {
	o := nightlyObserver(t)
	target := ephem.Fixed("test", astro.DegToRad(310), astro.DegToRad(10))

	ev, err := o.ResolveEvents(target)
	if err != nil {
		t.Fatalf("ResolveEvents: %v", err)
	}
	if ev.Status != StatusNormal {
		t.Fatalf("status = %v, want normal", ev.Status)
	}
	if ev.Rise.IsZero() || ev.Set.IsZero() || ev.Transit.IsZero() {
		t.Fatal("normal status with unset event times")
	}
	if !ev.Rise.Before(ev.Set) {
		t.Errorf("rise %v not before set %v", ev.Rise, ev.Set)
	}

	// Culmination altitude is 90 - |lat - dec|.
	want := 90 - math.Abs(o.Site.Lat-10)
	if math.Abs(ev.TransitAlt-want) > 1.0 {
		t.Errorf("transit alt = %.2f°, want ~%.2f°", ev.TransitAlt, want)
	}
	// Rises in the east, sets in the west.
	if ev.RiseAz <= 0 || ev.RiseAz >= 180 {
		t.Errorf("rise azimuth = %.1f°, want eastern half", ev.RiseAz)
	}
	if ev.SetAz <= 180 || ev.SetAz >= 360 {
		t.Errorf("set azimuth = %.1f°, want western half", ev.SetAz)
	}
}

func TestResolveEventsNeverUp(t *testing.T) {
	o := nightlyObserver(t)
	target := ephem.Fixed("far-south", 0, astro.DegToRad(-80))

	ev, err := o.ResolveEvents(target)
	if err != nil {
		t.Fatalf("ResolveEvents: %v", err)
	}
	if ev.Status != StatusNeverUp {
		t.Fatalf("status = %v, want never up", ev.Status)
	}
	if !ev.Rise.IsZero() || !ev.Set.IsZero() {
		t.Error("never-up target has rise/set times")
	}
	if ev.Transit.IsZero() {
		t.Fatal("transit not computed for never-up target")
	}
	if ev.TransitAlt >= 0 {
		t.Errorf("transit alt = %.2f°, want negative", ev.TransitAlt)
	}
}

func TestResolveEventsAlwaysUp(t *testing.T) {
	o := nightlyObserver(t)
	target := ephem.Fixed("circumpolar", 0, astro.DegToRad(85))

	ev, err := o.ResolveEvents(target)
	if err != nil {
		t.Fatalf("ResolveEvents: %v", err)
	}
	if ev.Status != StatusAlwaysUp {
		t.Fatalf("status = %v, want always up", ev.Status)
	}
	if !ev.Rise.IsZero() || !ev.Set.IsZero() {
		t.Error("always-up target has rise/set times")
	}
	if ev.Transit.IsZero() || ev.TransitAlt <= 0 {
		t.Errorf("transit = %v alt %.2f°, want defined and positive", ev.Transit, ev.TransitAlt)
	}
}

func TestEventConsistency(t *testing.T) {
	o := nightlyObserver(t)
	for _, dec := range []float64{-80, -40, 0, 30, 60, 85} {
		ev, err := o.ResolveEvents(ephem.Fixed("sweep", astro.DegToRad(100), astro.DegToRad(dec)))
		if err != nil {
			t.Fatalf("dec %v: %v", dec, err)
		}
		normal := ev.Status == StatusNormal
		if normal != (!ev.Rise.IsZero() && !ev.Set.IsZero()) {
			t.Errorf("dec %v: status %v inconsistent with rise=%v set=%v", dec, ev.Status, ev.Rise, ev.Set)
		}
		if ev.Transit.IsZero() {
			t.Errorf("dec %v: no transit", dec)
		}
	}
}

func TestSampleFixedTarget(t *testing.T) {
	o := nightlyObserver(t)
	target := ephem.Fixed("test", astro.DegToRad(310), astro.DegToRad(10))

	tr, err := o.Sample(target)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	n := len(o.Dates)
	if len(tr.Alt) != n || len(tr.Az) != n || len(tr.HA) != n || len(tr.Airmass) != n {
		t.Fatalf("array lengths %d/%d/%d/%d, want %d", len(tr.Alt), len(tr.Az), len(tr.HA), len(tr.Airmass), n)
	}
	if tr.Phase != nil || tr.RAs != nil {
		t.Error("fixed target carries Moon-only arrays")
	}
	if tr.MoonDist == nil {
		t.Fatal("fixed target missing lunar separation")
	}

	for i := 0; i < n; i++ {
		if tr.HA[i] < -180 || tr.HA[i] >= 180 {
			t.Fatalf("HA[%d] = %v, want [-180, 180)", i, tr.HA[i])
		}
		if tr.Airmass[i] < 1 || math.IsInf(tr.Airmass[i], 0) || math.IsNaN(tr.Airmass[i]) {
			t.Fatalf("Airmass[%d] = %v", i, tr.Airmass[i])
		}
		if tr.MoonDist[i] < 0 || tr.MoonDist[i] > 180 {
			t.Fatalf("MoonDist[%d] = %v", i, tr.MoonDist[i])
		}
	}

	// Hour angle is negative east of the meridian and crosses zero at
	// the highest point of the arc.
	best := 0
	for i, alt := range tr.Alt {
		if alt > tr.Alt[best] {
			best = i
		}
	}
	if best > 0 && best < n-1 {
		if math.Abs(tr.HA[best]) > 5 {
			t.Errorf("HA at culmination = %.2f°, want ~0", tr.HA[best])
		}
		if tr.HA[0] >= 0 {
			t.Errorf("HA before transit = %.2f°, want negative (east)", tr.HA[0])
		}
		if tr.HA[n-1] <= 0 {
			t.Errorf("HA after transit = %.2f°, want positive (west)", tr.HA[n-1])
		}
	}

	// Apparent position of date sits near the catalog position.
	if math.Abs(tr.Dec-10) > 0.5 {
		t.Errorf("apparent dec = %.3f°, want ~10°", tr.Dec)
	}
}

func TestSampleMoon(t *testing.T) {
	o := nightlyObserver(t)
	tr, err := o.Sample(ephem.Moon())
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	n := len(o.Dates)
	if len(tr.Phase) != n || len(tr.RAs) != n || len(tr.Decs) != n {
		t.Fatalf("moon array lengths %d/%d/%d, want %d", len(tr.Phase), len(tr.RAs), len(tr.Decs), n)
	}
	for i := 0; i < n; i++ {
		if tr.Phase[i] < 0 || tr.Phase[i] > 100 {
			t.Fatalf("Phase[%d] = %v", i, tr.Phase[i])
		}
	}
	// The Moon's RA drifts measurably over one night (~0.5°/h).
	drift := math.Abs(astro.NormalizeHalf(astro.DegToRad(tr.RAs[n-1] - tr.RAs[0])))
	if astro.RadToDeg(drift) < 2 {
		t.Errorf("moon RA drift over the night = %.2f°, want > 2°", astro.RadToDeg(drift))
	}
}

func TestObserverImmutableAcrossQueries(t *testing.T) {
	o := nightlyObserver(t)
	localNight, date := o.LocalNight, o.Date
	first, count := o.Dates[0], len(o.Dates)

	target := ephem.Fixed("test", astro.DegToRad(310), astro.DegToRad(10))
	if _, err := o.ResolveEvents(target); err != nil {
		t.Fatalf("ResolveEvents: %v", err)
	}
	if _, err := o.Sample(target); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if !o.LocalNight.Equal(localNight) || !o.Date.Equal(date) {
		t.Error("night anchor mutated by resolve/sample")
	}
	if len(o.Dates) != count || !o.Dates[0].Equal(first) {
		t.Error("grid mutated by resolve/sample")
	}
}
