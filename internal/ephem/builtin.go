package ephem

import (
	"time"

	"github.com/litescript/ls-nightplan/internal/astro"
)

// searchWindow is how far an event search scans from its anchor. A body's
// diurnal period is at most ~24h50m (the Moon), so one window always
// contains a full rise/set cycle when one exists.
const searchWindow = 26 * time.Hour

// Builtin is an analytic ephemeris provider with no external data
// dependencies. Solar and lunar positions come from truncated almanac
// series; fixed targets are precessed from J2000 to the query date.
type Builtin struct{}

// NewBuiltin creates the built-in analytic provider.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

// compile-time interface check
var _ Provider = (*Builtin)(nil)

// apparent returns the body's apparent equatorial position of date.
func (p *Builtin) apparent(b Body, site Topo, t time.Time) astro.Equatorial {
	switch b.Kind {
	case KindSun:
		return astro.SunPosition(t)
	case KindMoon:
		lst := astro.LST(t, site.Lon)
		return astro.TopocentricMoon(astro.MoonPosition(t), site.Lat, lst)
	default:
		return astro.Precess(astro.Equatorial{RA: b.RA, Dec: b.Dec}, t)
	}
}

// Position computes the body's topocentric position at t. Altitude includes
// atmospheric refraction for the site's temperature and pressure.
func (p *Builtin) Position(b Body, site Topo, t time.Time) Position {
	eq := p.apparent(b, site, t)
	lst := astro.LST(t, site.Lon)
	h := astro.EquatorialToHorizontal(eq, site.Lat, lst)

	alt := h.Alt + astro.Refraction(h.Alt, site.TempC, site.PressureHPa)

	pos := Position{
		Alt: alt,
		Az:  h.Az,
		RA:  eq.RA,
		Dec: eq.Dec,
	}
	if b.Kind == KindMoon {
		pos.Phase = astro.MoonPhase(t)
	}
	return pos
}

// altitudeFn returns the altitude-above-horizon function used by the event
// searches.
func (p *Builtin) altitudeFn(b Body, site Topo, horizon float64) func(time.Time) float64 {
	return func(t time.Time) float64 {
		return p.Position(b, site, t).Alt - horizon
	}
}

// NextRising returns the first upward horizon crossing after from.
func (p *Builtin) NextRising(b Body, site Topo, from time.Time, horizon float64) (time.Time, error) {
	return p.eventForward(b, site, from, horizon, crossingUp)
}

// NextSetting returns the first downward horizon crossing after from.
func (p *Builtin) NextSetting(b Body, site Topo, from time.Time, horizon float64) (time.Time, error) {
	return p.eventForward(b, site, from, horizon, crossingDown)
}

// PreviousRising returns the last upward horizon crossing before from.
func (p *Builtin) PreviousRising(b Body, site Topo, from time.Time, horizon float64) (time.Time, error) {
	return p.eventBackward(b, site, from, horizon, crossingUp)
}

// PreviousSetting returns the last downward horizon crossing before from.
func (p *Builtin) PreviousSetting(b Body, site Topo, from time.Time, horizon float64) (time.Time, error) {
	return p.eventBackward(b, site, from, horizon, crossingDown)
}

func (p *Builtin) eventForward(b Body, site Topo, from time.Time, horizon float64, dir crossingDir) (time.Time, error) {
	f := p.altitudeFn(b, site, horizon)
	if t, ok := findFirstCrossing(f, from, from.Add(searchWindow), dir, defaultSearch); ok {
		return t, nil
	}
	return time.Time{}, p.classifyNoCrossing(f, from, from.Add(searchWindow))
}

func (p *Builtin) eventBackward(b Body, site Topo, from time.Time, horizon float64, dir crossingDir) (time.Time, error) {
	f := p.altitudeFn(b, site, horizon)
	if t, ok := findLastCrossing(f, from.Add(-searchWindow), from, dir, defaultSearch); ok {
		return t, nil
	}
	return time.Time{}, p.classifyNoCrossing(f, from.Add(-searchWindow), from)
}

// classifyNoCrossing decides which circumpolar condition made a search come
// up empty, by sampling the altitude envelope across the window.
func (p *Builtin) classifyNoCrossing(f func(time.Time) float64, start, end time.Time) error {
	const samples = 64
	interval := end.Sub(start) / time.Duration(samples-1)

	minV := f(start)
	maxV := minV
	for i := 1; i < samples; i++ {
		v := f(start.Add(time.Duration(i) * interval))
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if maxV <= 0 {
		return ErrNeverUp
	}
	return ErrAlwaysUp
}

// NextTransit returns the first meridian crossing after from: the instant
// the body's hour angle sweeps upward through zero.
func (p *Builtin) NextTransit(b Body, site Topo, from time.Time) (time.Time, error) {
	f := func(t time.Time) float64 {
		eq := p.apparent(b, site, t)
		return astro.NormalizeHalf(astro.LST(t, site.Lon) - eq.RA)
	}
	// The hour angle increases steadily through 0 at transit and wraps from
	// +π to -π at anti-transit, so only upward zero crossings are real
	// transits.
	if t, ok := findFirstCrossing(f, from, from.Add(searchWindow), crossingUp, defaultSearch); ok {
		return t, nil
	}
	// One full diurnal cycle always contains a transit; reaching this means
	// the sampling straddled the wrap unluckily. Retry at finer resolution.
	fine := searchSpec{steps: defaultSearch.steps * 4, tol: defaultSearch.tol}
	if t, ok := findFirstCrossing(f, from, from.Add(searchWindow), crossingUp, fine); ok {
		return t, nil
	}
	return time.Time{}, ErrNeverUp
}

// SiderealTime returns the local apparent sidereal time in radians.
func (p *Builtin) SiderealTime(site Topo, t time.Time) float64 {
	return astro.LST(t, site.Lon)
}

// Separation returns the great-circle distance in radians between two
// coordinate pairs.
func (p *Builtin) Separation(lon1, lat1, lon2, lat2 float64) float64 {
	return astro.AngularSeparation(lon1, lat1, lon2, lat2)
}
