// Package ephem provides ephemeris data for celestial bodies.
package ephem

import (
	"errors"
	"time"
)

// BodyKind distinguishes the bodies the provider can locate.
type BodyKind int

const (
	// KindSun is the Sun.
	KindSun BodyKind = iota
	// KindMoon is the Moon.
	KindMoon
	// KindFixed is a sidereal target at fixed J2000 coordinates.
	KindFixed
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	case KindFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Body identifies a celestial body for ephemeris queries. RA and Dec are
// J2000 mean coordinates in radians and are meaningful only for KindFixed.
type Body struct {
	Kind BodyKind
	Name string
	RA   float64
	Dec  float64
}

// Sun returns the Sun body.
func Sun() Body {
	return Body{Kind: KindSun, Name: "Sun"}
}

// Moon returns the Moon body.
func Moon() Body {
	return Body{Kind: KindMoon, Name: "Moon"}
}

// Fixed returns a sidereal body at the given J2000 position in radians.
func Fixed(name string, raRad, decRad float64) Body {
	return Body{Kind: KindFixed, Name: name, RA: raRad, Dec: decRad}
}

// Topo is the topocentric observer state attached to every query.
// Angles in radians, elevation in meters.
type Topo struct {
	Lat         float64
	Lon         float64
	ElevationM  float64
	TempC       float64
	PressureHPa float64
}

// Position is a computed body position. All angles in radians; Alt is the
// apparent (refracted) altitude. Phase is the illuminated fraction in
// percent and is populated for the Moon only.
type Position struct {
	Alt   float64
	Az    float64
	RA    float64 // apparent right ascension of date
	Dec   float64 // apparent declination of date
	Phase float64
}

// Event-search failures for circumpolar geometries. These are expected
// outcomes at polar latitudes or near-polar declinations, not faults.
var (
	// ErrAlwaysUp reports that the body stays above the horizon for the
	// whole search window.
	ErrAlwaysUp = errors.New("body is always above the horizon")

	// ErrNeverUp reports that the body stays below the horizon for the
	// whole search window.
	ErrNeverUp = errors.New("body never reaches the horizon")
)

// Provider defines the ephemeris capability the night engine consumes.
//
// Each event finder searches roughly one day from (or before) the anchor
// instant and fails with ErrAlwaysUp or ErrNeverUp when the body does not
// cross the given horizon altitude (radians) within it.
type Provider interface {
	// Position computes the body's topocentric position at t.
	Position(b Body, site Topo, t time.Time) Position

	// NextRising returns the first upward horizon crossing after from.
	NextRising(b Body, site Topo, from time.Time, horizon float64) (time.Time, error)

	// NextSetting returns the first downward horizon crossing after from.
	NextSetting(b Body, site Topo, from time.Time, horizon float64) (time.Time, error)

	// PreviousRising returns the last upward horizon crossing before from.
	PreviousRising(b Body, site Topo, from time.Time, horizon float64) (time.Time, error)

	// PreviousSetting returns the last downward horizon crossing before from.
	PreviousSetting(b Body, site Topo, from time.Time, horizon float64) (time.Time, error)

	// NextTransit returns the first meridian crossing after from.
	// Transits always exist, so it cannot fail with a circumpolar error.
	NextTransit(b Body, site Topo, from time.Time) (time.Time, error)

	// SiderealTime returns the local apparent sidereal time in radians.
	SiderealTime(site Topo, t time.Time) float64

	// Separation returns the great-circle distance in radians between two
	// (longitude-like, latitude-like) coordinate pairs.
	Separation(lon1, lat1, lon2, lat2 float64) float64
}
