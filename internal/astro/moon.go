package astro

import (
	"math"
	"time"
)

// MoonEphemeris is the Moon's geocentric position and distance at an instant.
type MoonEphemeris struct {
	Equatorial
	DistanceKm float64
}

// MoonPosition calculates the geocentric equatorial coordinates and distance
// of the Moon using a truncated Meeus-style series: the dominant periodic
// terms in ecliptic longitude, latitude and distance. Accuracy is a few
// arcminutes, which is ample for rise/set and avoidance-radius work.
func MoonPosition(t time.Time) MoonEphemeris {
	d := JulianDate(t) - J2000
	T := d / 36525.0

	// Fundamental arguments (degrees).
	Lp := normalizeDeg(218.3164477 + 13.17639648*d) // mean longitude of the Moon
	M := normalizeDeg(357.5291092 + 0.98560028*d)   // mean anomaly of the Sun
	Mm := normalizeDeg(134.9633964 + 13.06499295*d) // mean anomaly of the Moon
	D := normalizeDeg(297.8501921 + 12.19074912*d)  // mean elongation from the Sun
	F := normalizeDeg(93.2720950 + 13.22935024*d)   // argument of latitude

	Lr := DegToRad(Lp)
	Mr := DegToRad(M)
	Mmr := DegToRad(Mm)
	Dr := DegToRad(D)
	Fr := DegToRad(F)

	// Ecliptic longitude (radians), main terms.
	lon := Lr +
		DegToRad(6.289)*math.Sin(Mmr) +
		DegToRad(1.274)*math.Sin(2*Dr-Mmr) +
		DegToRad(0.658)*math.Sin(2*Dr) +
		DegToRad(0.214)*math.Sin(2*Mmr) -
		DegToRad(0.186)*math.Sin(Mr) -
		DegToRad(0.114)*math.Sin(2*Fr)

	// Ecliptic latitude (radians).
	lat := DegToRad(5.128)*math.Sin(Fr) +
		DegToRad(0.280)*math.Sin(Mmr+Fr) +
		DegToRad(0.277)*math.Sin(Mmr-Fr) +
		DegToRad(0.173)*math.Sin(2*Dr-Fr)

	// Earth-Moon distance (km), truncated series on faster arguments.
	Dd := DegToRad(normalizeDeg(297.8501921 + 445267.1114034*T))
	M1 := DegToRad(normalizeDeg(134.9633964 + 477198.8675055*T))
	dist := 385000.56 -
		20905.0*math.Cos(M1) -
		3699.0*math.Cos(2*Dd-M1) -
		2956.0*math.Cos(2*Dd) -
		570.0*math.Cos(2*M1) -
		246.0*math.Cos(2*Dd+M1)

	// Ecliptic -> equatorial with the mean obliquity.
	eps := DegToRad(23.439291 - 0.0000137*d)

	x := math.Cos(lat) * math.Cos(lon)
	y := math.Cos(lat)*math.Sin(lon)*math.Cos(eps) - math.Sin(lat)*math.Sin(eps)
	z := math.Cos(lat)*math.Sin(lon)*math.Sin(eps) + math.Sin(lat)*math.Cos(eps)

	ra := math.Atan2(y, x)
	dec := math.Asin(clamp(z, -1, 1))

	return MoonEphemeris{
		Equatorial: Equatorial{RA: NormalizeAngle(ra), Dec: dec},
		DistanceKm: dist,
	}
}

// TopocentricMoon corrects a geocentric lunar position for horizontal
// parallax at an observer with latitude lat (radians) and local sidereal
// time lst (radians). The Moon is close enough that parallax shifts its
// apparent position by up to a degree; other bodies can ignore it.
func TopocentricMoon(m MoonEphemeris, lat, lst float64) Equatorial {
	pi := horizontalParallax(m.DistanceKm)

	H := lst - m.RA

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Meeus approximate geocentric observer factors at sea level.
	rhoSin := 0.99883 * sinLat
	rhoCos := 0.99883 * cosLat

	sinDec := math.Sin(m.Dec)
	cosDec := math.Cos(m.Dec)
	sinPi := math.Sin(pi)

	deltaRA := math.Atan2(
		-rhoCos*sinPi*math.Sin(H),
		cosDec-rhoCos*sinPi*math.Cos(H),
	)

	raTopo := m.RA + deltaRA
	decTopo := math.Atan2(
		sinDec-rhoSin*sinPi,
		cosDec-rhoCos*sinPi*math.Cos(H),
	)

	return Equatorial{RA: NormalizeAngle(raTopo), Dec: decTopo}
}

// MoonPhase returns the Moon's illuminated fraction as a percentage (0-100)
// at the given time. Phase is a global property, independent of observer.
func MoonPhase(t time.Time) float64 {
	m := MoonPosition(t)
	s := SunPosition(t)

	// cos ψ = sin δs sin δm + cos δs cos δm cos(αs - αm)
	cosPsi := math.Sin(s.Dec)*math.Sin(m.Dec) +
		math.Cos(s.Dec)*math.Cos(m.Dec)*math.Cos(s.RA-m.RA)
	cosPsi = clamp(cosPsi, -1, 1)

	// Illuminated fraction k = (1 - cos ψ) / 2
	frac := 0.5 * (1 - cosPsi)
	return clamp(frac, 0, 1) * 100
}

func horizontalParallax(distanceKm float64) float64 {
	const earthRadiusKm = 6378.14
	if distanceKm <= earthRadiusKm {
		return DegToRad(1.0)
	}
	return math.Asin(earthRadiusKm / distanceKm)
}
