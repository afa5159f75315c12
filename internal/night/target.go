package night

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/ephem"
)

// ErrMalformedCoordinate reports an RA/Dec string that parses as
// neither sexagesimal nor decimal.
var ErrMalformedCoordinate = errors.New("malformed coordinate")

// RiseSetStatus is the terminal rise/set outcome for one body and
// night, decided once by ResolveEvents.
type RiseSetStatus int

const (
	StatusNormal   RiseSetStatus = iota // rise and set both defined
	StatusAlwaysUp                      // never crosses below the horizon
	StatusNeverUp                       // never crosses above the horizon
)

func (s RiseSetStatus) String() string {
	switch s {
	case StatusAlwaysUp:
		return "always up"
	case StatusNeverUp:
		return "never up"
	}
	return "normal"
}

// Events holds a body's rise, set and transit circumstances for one
// night. Rise and set fields are meaningful only when Status is
// StatusNormal; the transit is computed in every case. Azimuths and
// altitudes are degrees.
type Events struct {
	Status RiseSetStatus

	Rise   time.Time
	RiseAz float64
	Set    time.Time
	SetAz  float64

	Transit    time.Time
	TransitAz  float64
	TransitAlt float64
}

// Trajectory is a body's per-sample track across the night grid. All
// slices are indexed like Observer.Dates; angles are degrees.
type Trajectory struct {
	Body   ephem.Body
	Events Events

	Alt     []float64
	Az      []float64
	HA      []float64 // hour angle in [-180, 180): negative east of the meridian
	Airmass []float64

	// MoonDist is the per-sample angular distance to the Moon, set for
	// every body except the Moon itself.
	MoonDist []float64

	// Moon only: per-sample illuminated fraction in percent and
	// apparent equatorial track, which drifts measurably over a night.
	Phase []float64
	RAs   []float64
	Decs  []float64

	// Apparent position of date: per-sample for the Moon (see RAs,
	// Decs), evaluated at the final sample for fixed bodies.
	RA  float64
	Dec float64
}

// ResolveEvents finds rise, set and transit for a body over the current
// night. The search anchors at the grid's first sample rather than the
// wall clock, so results are deterministic for a given night. The
// resolver treats the Sun, the Moon and fixed targets identically.
func (o *Observer) ResolveEvents(b ephem.Body) (Events, error) {
	if len(o.Dates) == 0 {
		return Events{}, ErrNoDate
	}
	anchor := o.Dates[0]
	topo := o.topo()
	ev := Events{Status: StatusNormal}

	set, err := o.provider.NextSetting(b, topo, anchor, o.Horizon)
	switch {
	case errors.Is(err, ephem.ErrAlwaysUp):
		ev.Status = StatusAlwaysUp
	case errors.Is(err, ephem.ErrNeverUp):
		ev.Status = StatusNeverUp
	case err != nil:
		return Events{}, fmt.Errorf("next setting of %s: %w", b.Name, err)
	default:
		ev.Set = set
		ev.SetAz = astro.RadToDeg(o.provider.Position(b, topo, set).Az)
		rise, errRise := o.provider.PreviousRising(b, topo, set, o.Horizon)
		if errRise != nil {
			return Events{}, fmt.Errorf("previous rising of %s: %w", b.Name, errRise)
		}
		ev.Rise = rise
		ev.RiseAz = astro.RadToDeg(o.provider.Position(b, topo, rise).Az)
	}

	transitAnchor := anchor
	if !ev.Rise.IsZero() {
		transitAnchor = ev.Rise
	}
	transit, err := o.provider.NextTransit(b, topo, transitAnchor)
	if err != nil {
		return Events{}, fmt.Errorf("transit of %s: %w", b.Name, err)
	}
	pos := o.provider.Position(b, topo, transit)
	ev.Transit = transit
	ev.TransitAz = astro.RadToDeg(pos.Az)
	ev.TransitAlt = astro.RadToDeg(pos.Alt)
	return ev, nil
}

// Sample computes a body's trajectory across the night grid: altitude,
// azimuth, hour angle and airmass at every sample, lunar separation for
// non-Moon bodies, and phase plus equatorial track for the Moon.
func (o *Observer) Sample(b ephem.Body) (*Trajectory, error) {
	if len(o.Dates) == 0 {
		return nil, ErrNoDate
	}
	ev, err := o.ResolveEvents(b)
	if err != nil {
		return nil, err
	}

	n := len(o.Dates)
	tr := &Trajectory{
		Body:    b,
		Events:  ev,
		Alt:     make([]float64, n),
		Az:      make([]float64, n),
		HA:      make([]float64, n),
		Airmass: make([]float64, n),
	}
	isMoon := b.Kind == ephem.KindMoon
	if isMoon {
		tr.Phase = make([]float64, n)
		tr.RAs = make([]float64, n)
		tr.Decs = make([]float64, n)
	} else if o.Moon != nil {
		tr.MoonDist = make([]float64, n)
	}

	topo := o.topo()
	var lastRA, lastDec float64
	for i, t := range o.Dates {
		pos := o.provider.Position(b, topo, t)
		tr.Alt[i] = astro.RadToDeg(pos.Alt)
		tr.Az[i] = astro.RadToDeg(pos.Az)
		tr.Airmass[i] = astro.Airmass(pos.Alt)
		// Hour angle from per-sample LST and apparent RA, negative
		// before transit (body east of the meridian).
		ha := astro.NormalizeHalf(o.LST[i]*math.Pi/12 - pos.RA)
		tr.HA[i] = astro.RadToDeg(ha)

		if isMoon {
			tr.Phase[i] = pos.Phase
			tr.RAs[i] = astro.RadToDeg(pos.RA)
			tr.Decs[i] = astro.RadToDeg(pos.Dec)
		} else if tr.MoonDist != nil {
			sep := o.provider.Separation(
				pos.Az, pos.Alt,
				astro.DegToRad(o.Moon.Az[i]), astro.DegToRad(o.Moon.Alt[i]),
			)
			tr.MoonDist[i] = astro.RadToDeg(sep)
		}
		lastRA, lastDec = pos.RA, pos.Dec
	}
	tr.RA = astro.RadToDeg(lastRA)
	tr.Dec = astro.RadToDeg(lastDec)
	return tr, nil
}

// NewFixedBody builds a fixed sidereal target from RA/Dec strings. RA
// accepts "hh:mm:ss.s" sexagesimal hours or decimal degrees; Dec
// accepts "±dd:mm:ss.s" or decimal degrees.
func NewFixedBody(name, ra, dec string) (ephem.Body, error) {
	raRad, err := ParseRA(ra)
	if err != nil {
		return ephem.Body{}, fmt.Errorf("target %q: %w", name, err)
	}
	decRad, err := ParseDec(dec)
	if err != nil {
		return ephem.Body{}, fmt.Errorf("target %q: %w", name, err)
	}
	return ephem.Fixed(name, raRad, decRad), nil
}

// ParseRA parses a right ascension to radians. Sexagesimal input is
// hours ("hh:mm:ss.s"); plain numbers are decimal degrees. The result
// is normalized to [0, 2π).
func ParseRA(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ":") {
		hours, err := parseSexagesimal(s)
		if err != nil {
			return 0, err
		}
		if hours < 0 || hours >= 24 {
			return 0, fmt.Errorf("%w: RA %q out of [0, 24) hours", ErrMalformedCoordinate, s)
		}
		return hours * math.Pi / 12, nil
	}
	deg, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return astro.NormalizeAngle(astro.DegToRad(deg)), nil
}

// ParseDec parses a declination to radians, accepting "±dd:mm:ss.s" or
// decimal degrees in [-90, 90].
func ParseDec(s string) (float64, error) {
	s = strings.TrimSpace(s)
	var deg float64
	var err error
	if strings.Contains(s, ":") {
		deg, err = parseSexagesimal(s)
	} else {
		deg, err = strconv.ParseFloat(s, 64)
		if err != nil {
			err = fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
		}
	}
	if err != nil {
		return 0, err
	}
	if deg < -90 || deg > 90 {
		return 0, fmt.Errorf("%w: declination %q out of [-90, 90]", ErrMalformedCoordinate, s)
	}
	return astro.DegToRad(deg), nil
}

// parseSexagesimal converts "±a:b:c.c" (2 or 3 fields) to a decimal
// value in the leading unit, carrying the sign across all fields.
func parseSexagesimal(s string) (float64, error) {
	raw := s
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	fields := strings.Split(s, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, raw)
	}
	var value, scale float64
	scale = 1
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, raw)
		}
		value += v / scale
		scale *= 60
	}
	if neg {
		value = -value
	}
	return value, nil
}
