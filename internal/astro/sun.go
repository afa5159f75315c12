package astro

import (
	"math"
	"time"
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees, sufficient for twilight and separation work.
func SunPosition(t time.Time) Equatorial {
	jd := JulianDate(t)

	// Julian centuries from J2000.0
	T := (jd - J2000) / 36525.0

	// Mean longitude of the Sun (degrees)
	L0 := normalizeDeg(280.46646 + 36000.76983*T + 0.0003032*T*T)

	// Mean anomaly of the Sun (degrees)
	M := normalizeDeg(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := DegToRad(M)

	// Equation of center (degrees)
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// True longitude, then apparent longitude corrected for aberration
	// and nutation.
	sunLon := L0 + C
	omega := 125.04 - 1934.136*T
	sunLonApp := sunLon - 0.00569 - 0.00478*math.Sin(DegToRad(omega))

	// Obliquity of the ecliptic, corrected
	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(DegToRad(omega))

	sunLonRad := DegToRad(sunLonApp)
	epsRad := DegToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad))
	dec := math.Asin(math.Sin(epsRad) * math.Sin(sunLonRad))

	return Equatorial{RA: NormalizeAngle(ra), Dec: dec}
}

// normalizeDeg normalizes an angle to 0-360 degrees.
func normalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
