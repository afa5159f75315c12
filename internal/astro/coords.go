// Package astro provides astronomical coordinate transformations and sky math.
//
// All functions work in radians unless a name says otherwise; the night
// engine converts to degrees at its own boundary.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch.
const J2000 = 2451545.0

// EarthRadiusM is the Earth's equatorial radius in meters.
const EarthRadiusM = 6378160.0

// Equatorial is an equatorial position in radians.
type Equatorial struct {
	RA  float64 // right ascension, 0..2π
	Dec float64 // declination, -π/2..π/2
}

// Horizontal is a horizontal position in radians.
type Horizontal struct {
	Alt float64 // altitude above the horizon
	Az  float64 // azimuth, 0 = North, π/2 = East
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Treat January/February as months 13/14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// GMST calculates Greenwich Mean Sidereal Time in radians for a given UTC time.
// Uses the IAU 1982 formula based on Julian Date.
func GMST(t time.Time) float64 {
	jd := JulianDate(t)
	T := (jd - J2000) / 36525.0

	gmstDeg := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return NormalizeAngle(DegToRad(gmstDeg))
}

// LST calculates Local Sidereal Time in radians for a given UTC time and
// observer longitude (radians, east positive).
func LST(t time.Time, lonRad float64) float64 {
	return NormalizeAngle(GMST(t) + lonRad)
}

// EquatorialToHorizontal converts an equatorial position to horizontal
// coordinates for an observer at latitude lat (radians) with local sidereal
// time lst (radians).
//
// Azimuth convention: 0 = North, π/2 = East, π = South, 3π/2 = West.
func EquatorialToHorizontal(eq Equatorial, lat, lst float64) Horizontal {
	ha := lst - eq.RA

	sinAlt := math.Sin(eq.Dec)*math.Sin(lat) + math.Cos(eq.Dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clamp(sinAlt, -1, 1))

	cosAz := (math.Sin(eq.Dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clamp(cosAz, -1, 1))

	// Positive hour angle means the body is west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{Alt: alt, Az: az}
}

// AngularSeparation calculates the great-circle distance in radians between
// two points given as (longitude-like, latitude-like) angle pairs. It works
// identically for (RA, Dec) and (Az, Alt) pairs.
func AngularSeparation(lon1, lat1, lon2, lat2 float64) float64 {
	// Haversine, stable for small separations.
	dLon := lon2 - lon1
	dLat := lat2 - lat1

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	if a > 1 {
		a = 1
	}

	return 2 * math.Asin(math.Sqrt(a))
}

// HorizonDip returns the horizon depression in radians for an observer at
// the given elevation in meters above sea level.
func HorizonDip(elevationM float64) float64 {
	if elevationM <= 0 {
		return 0
	}
	return -math.Sqrt(2 * elevationM / EarthRadiusM)
}

// NormalizeAngle normalizes an angle in radians to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// NormalizeHalf normalizes an angle in radians to [-π, π).
func NormalizeHalf(a float64) float64 {
	a = NormalizeAngle(a)
	if a >= math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
