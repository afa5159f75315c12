// Package night builds observation-night windows for a site: twilight
// times at four depths, a linearly spaced sample grid across the night,
// per-sample sidereal time, and the Moon's trajectory. Rise/set/transit
// resolution and trajectory sampling for arbitrary targets build on it.
//
// Angles exposed by this package are decimal degrees; the observer's
// internal horizon bookkeeping is radians, matching the provider.
package night

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/litescript/ls-nightplan/internal/astro"
	"github.com/litescript/ls-nightplan/internal/ephem"
	"github.com/litescript/ls-nightplan/internal/sites"
	"github.com/litescript/ls-nightplan/internal/timeutil"
)

var (
	// ErrNoDate reports use of night-derived data before UpdateDate ran.
	ErrNoDate = errors.New("night not computed, call UpdateDate first")
	// ErrBadSampleCount reports a grid request with fewer than 2 samples.
	ErrBadSampleCount = errors.New("sample count must be at least 2")
	// ErrUnknownTwilight reports a twilight depth outside the fixed four.
	ErrUnknownTwilight = errors.New("unknown twilight depth")
)

// Depth selects one of the four twilight horizons.
type Depth int

const (
	DepthHorizon  Depth = iota // apparent horizon, dip-adjusted
	DepthCivil                 // Sun 6° below horizon
	DepthNautical              // Sun 12° below horizon
	DepthAstro                 // Sun 18° below horizon

	numDepths
)

func (d Depth) String() string {
	switch d {
	case DepthHorizon:
		return "horizon"
	case DepthCivil:
		return "civil"
	case DepthNautical:
		return "nautical"
	case DepthAstro:
		return "astro"
	}
	return fmt.Sprintf("Depth(%d)", int(d))
}

// Twilight depths in radians. The provider applies refraction itself, so
// the horizon depth only needs the solar semidiameter on top of the dip.
const (
	civilHorizon    = -0.104719 // -6°
	nauticalHorizon = -0.2094395
	astroHorizon    = -0.314159
	sunSemidiameter = 0.004654 // 16 arcmin
)

// PolarState records whether the horizon-depth Sun query hit a
// circumpolar condition for the night.
type PolarState int

const (
	PolarNone  PolarState = iota
	PolarDay              // Sun never sets: always lit
	PolarNight            // Sun never rises: always dark
)

func (s PolarState) String() string {
	switch s {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	}
	return "none"
}

// Window is a sunset/sunrise pair at one twilight depth. A nil *Window
// means the Sun does not cross that depth on the given night.
type Window struct {
	Sunset  time.Time
	Sunrise time.Time
}

// LenNight returns the window duration in hours.
func (w *Window) LenNight() float64 {
	if w == nil {
		return 0
	}
	return w.Sunrise.Sub(w.Sunset).Hours()
}

// GridConfig shapes the night sample grid.
type GridConfig struct {
	// Pts is the number of samples, default 200. Values below 2 are
	// rejected.
	Pts int
	// Margin extends the grid beyond sunset and sunrise, default 15
	// minutes. Ignored when FullHour is set.
	Margin time.Duration
	// FullHour snaps the grid ends outward to hour boundaries instead
	// of applying Margin.
	FullHour bool
}

const (
	DefaultPts    = 200
	DefaultMargin = 15 * time.Minute
)

func (g GridConfig) withDefaults() (GridConfig, error) {
	if g.Pts == 0 {
		g.Pts = DefaultPts
	}
	if g.Pts < 2 {
		return g, fmt.Errorf("%w: got %d", ErrBadSampleCount, g.Pts)
	}
	if g.Margin == 0 {
		g.Margin = DefaultMargin
	}
	return g, nil
}

// Options configures a new Observer.
type Options struct {
	// Provider supplies ephemeris queries; defaults to the built-in
	// analytic provider.
	Provider ephem.Provider
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Now injects the clock used for "tonight" resolution; defaults to
	// time.Now.
	Now func() time.Time
	// HorizonObsDeg is the minimum altitude in degrees at which a
	// target counts as observable; defaults to 30.
	HorizonObsDeg float64
}

// Observer couples a site with one observation night. UpdateDate
// populates the night state; the computed fields are read-only
// snapshots, replaced wholesale on recompute.
type Observer struct {
	Site sites.Site
	Loc  *time.Location

	// Horizon is the apparent horizon altitude in radians, dip-adjusted
	// for the site elevation.
	Horizon       float64
	HorizonObsDeg float64
	MoonAvoidDeg  float64

	provider ephem.Provider
	log      zerolog.Logger
	now      func() time.Time

	// Night state, populated by UpdateDate.
	LocalNight time.Time // 23:59:59 local civil on the observation day
	Date       time.Time // LocalNight in UT
	Grid       GridConfig
	Dates      []time.Time
	LST        []float64 // hours, one per sample
	Polar      PolarState
	Moon       *Trajectory

	windows [numDepths]*Window
}

// NewObserver builds an observer for a catalog site. The site's
// timezone must resolve; atmosphere fields default at catalog level.
func NewObserver(site sites.Site, opts Options) (*Observer, error) {
	loc, err := timeutil.LoadZone(site.Timezone)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", site.ID, err)
	}
	if opts.Provider == nil {
		opts.Provider = ephem.NewBuiltin()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HorizonObsDeg == 0 {
		opts.HorizonObsDeg = 30
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &Observer{
		Site:          site,
		Loc:           loc,
		Horizon:       astro.HorizonDip(site.ElevationM),
		HorizonObsDeg: opts.HorizonObsDeg,
		MoonAvoidDeg:  site.MoonAvoidDeg,
		provider:      opts.Provider,
		log:           log.With().Str("site", site.ID).Logger(),
		now:           opts.Now,
	}, nil
}

func (o *Observer) topo() ephem.Topo {
	return ephem.Topo{
		Lat:         astro.DegToRad(o.Site.Lat),
		Lon:         astro.DegToRad(o.Site.Lon),
		ElevationM:  o.Site.ElevationM,
		TempC:       o.Site.TempC,
		PressureHPa: o.Site.PressureHPa,
	}
}

// Window returns the sunset/sunrise pair at the given depth, nil when
// the Sun does not reach that depth on the night. An out-of-range depth
// is a programming error.
func (o *Observer) Window(d Depth) (*Window, error) {
	if d < 0 || d >= numDepths {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTwilight, int(d))
	}
	return o.windows[d], nil
}

// DateOptions selects the observation night for UpdateDate.
type DateOptions struct {
	// UT or Local pin the calendar day; any shape timeutil.Parse
	// accepts. UT wins when both are set. With neither, the night is
	// "tonight": the night that just started if the Sun is already
	// down, otherwise tonight at dusk.
	UT    any
	Local any
	// Force recomputes even when the resolved day matches the current
	// night.
	Force bool
	Grid  GridConfig
}

// UpdateDate resolves the observation night and recomputes the night
// state when the calendar day changed (or Force is set). It reports
// whether a recompute happened.
func (o *Observer) UpdateDate(opt DateOptions) (bool, error) {
	grid, err := opt.Grid.withDefaults()
	if err != nil {
		return false, err
	}

	local, err := o.resolveLocalDay(opt)
	if err != nil {
		return false, err
	}

	if !o.LocalNight.IsZero() && !opt.Force && timeutil.SameCalendarDay(o.LocalNight, local, o.Loc) {
		return false, nil
	}

	o.LocalNight = timeutil.NightAnchor(local.Year(), local.Month(), local.Day(), o.Loc)
	o.Date = o.LocalNight.UTC()

	if err := o.process(grid); err != nil {
		return false, err
	}
	o.log.Debug().
		Time("localnight", o.LocalNight).
		Stringer("polar", o.Polar).
		Int("samples", len(o.Dates)).
		Msg("night recomputed")
	return true, nil
}

// resolveLocalDay maps DateOptions to an instant on the observation day
// in the site's zone.
func (o *Observer) resolveLocalDay(opt DateOptions) (time.Time, error) {
	switch {
	case opt.UT != nil:
		t, err := timeutil.Parse(opt.UT)
		if err != nil {
			return time.Time{}, err
		}
		return t.In(o.Loc), nil
	case opt.Local != nil:
		t, err := timeutil.Parse(opt.Local)
		if err != nil {
			return time.Time{}, err
		}
		// reinterpret the parsed wall clock in the site's zone
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, o.Loc), nil
	}

	// Tonight: key the night on the sunset preceding the next sunrise,
	// so a post-midnight call still lands on the night in progress.
	now := o.now()
	rise, err := o.provider.NextRising(ephem.Sun(), o.topo(), now, o.sunHorizon())
	if err == nil {
		set, errSet := o.provider.PreviousSetting(ephem.Sun(), o.topo(), rise, o.sunHorizon())
		if errSet == nil {
			return set.In(o.Loc), nil
		}
		err = errSet
	}
	if !errors.Is(err, ephem.ErrAlwaysUp) && !errors.Is(err, ephem.ErrNeverUp) {
		return time.Time{}, err
	}
	// Polar regions have no usable sunset anchor; before local noon the
	// night in progress belongs to yesterday's date.
	local := now.In(o.Loc)
	if local.Hour() < 12 {
		local = local.AddDate(0, 0, -1)
	}
	return local, nil
}

func (o *Observer) sunHorizon() float64 {
	return o.Horizon - sunSemidiameter
}

func (o *Observer) depthHorizon(d Depth) float64 {
	switch d {
	case DepthCivil:
		return civilHorizon
	case DepthNautical:
		return nauticalHorizon
	case DepthAstro:
		return astroHorizon
	default:
		return o.sunHorizon()
	}
}

// process recomputes the twilight windows, the sample grid, per-sample
// sidereal times and the Moon trajectory for the current night.
func (o *Observer) process(grid GridConfig) error {
	o.Grid = grid
	o.Polar = PolarNone
	for d := DepthHorizon; d < numDepths; d++ {
		o.windows[d] = o.twilight(d)
	}

	var start, end time.Time
	if w := o.windows[DepthHorizon]; w != nil {
		if grid.FullHour {
			start = w.Sunset.Truncate(time.Hour)
			end = w.Sunrise.Truncate(time.Hour).Add(time.Hour)
		} else {
			start = w.Sunset.Add(-grid.Margin)
			end = w.Sunrise.Add(grid.Margin)
		}
	} else {
		// Circumpolar: a 24h grid centered on local midnight.
		start = time.Date(o.LocalNight.Year(), o.LocalNight.Month(), o.LocalNight.Day(), 12, 0, 0, 0, o.Loc)
		end = start.AddDate(0, 0, 1).Add(-time.Second)
	}

	o.Dates = linspace(start, end, grid.Pts)

	o.LST = make([]float64, len(o.Dates))
	for i, t := range o.Dates {
		o.LST[i] = o.provider.SiderealTime(o.topo(), t) * 12 / math.Pi
	}

	moon, err := o.Sample(ephem.Moon())
	if err != nil {
		return fmt.Errorf("moon trajectory: %w", err)
	}
	o.Moon = moon
	return nil
}

// twilight finds the sunset/sunrise pair at one depth: the next sunrise
// after local midnight, then the sunset preceding it. Returns nil when
// the Sun does not cross the depth; at horizon depth this also sets the
// polar flag.
func (o *Observer) twilight(d Depth) *Window {
	h := o.depthHorizon(d)
	rise, err := o.provider.NextRising(ephem.Sun(), o.topo(), o.Date, h)
	if err == nil {
		var set time.Time
		if set, err = o.provider.PreviousSetting(ephem.Sun(), o.topo(), rise, h); err == nil {
			return &Window{Sunset: set, Sunrise: rise}
		}
	}
	if d == DepthHorizon {
		switch {
		case errors.Is(err, ephem.ErrAlwaysUp):
			o.Polar = PolarDay
		case errors.Is(err, ephem.ErrNeverUp):
			o.Polar = PolarNight
		}
	}
	return nil
}

// linspace returns n instants evenly spaced from start to end inclusive.
func linspace(start, end time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	span := end.Sub(start)
	for i := range out {
		out[i] = start.Add(span * time.Duration(i) / time.Duration(n-1))
	}
	return out
}

// NowIndex returns the grid index nearest the current instant, or -1
// when the night is not in progress.
func (o *Observer) NowIndex() int {
	if len(o.Dates) < 2 {
		return -1
	}
	now := o.now()
	half := o.Dates[1].Sub(o.Dates[0]) / 2
	if now.Before(o.Dates[0].Add(-half)) || now.After(o.Dates[len(o.Dates)-1].Add(half)) {
		return -1
	}
	best, bestDiff := 0, time.Duration(math.MaxInt64)
	for i, t := range o.Dates {
		d := now.Sub(t)
		if d < 0 {
			d = -d
		}
		if d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// Separation returns the great-circle distance in degrees between two
// horizontal positions given in degrees.
func (o *Observer) Separation(azA, altA, azB, altB float64) float64 {
	return astro.RadToDeg(o.provider.Separation(
		astro.DegToRad(azA), astro.DegToRad(altA),
		astro.DegToRad(azB), astro.DegToRad(altB),
	))
}
