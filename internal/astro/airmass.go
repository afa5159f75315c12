package astro

import "math"

// minAirmassAlt is the altitude floor (radians) below which the airmass
// conversion would diverge; altitudes beneath it are clamped before the
// secant is taken.
const minAirmassAlt = 0.05

// Airmass converts an altitude in radians to relative airmass using the
// Hardie (1962) polynomial. The result is 1 at zenith and grows toward the
// horizon; the altitude floor keeps it finite for bodies at or below the
// horizon.
func Airmass(altRad float64) float64 {
	if altRad < minAirmassAlt {
		altRad = minAirmassAlt
	}
	z := 1/math.Sin(altRad) - 1.0
	return 1.0 + z*(0.9981833-z*(0.002875+z*0.0008083))
}

// Refraction returns the approximate atmospheric refraction in radians to
// add to a geometric altitude (radians), using the Bennett formula scaled
// for temperature (°C) and pressure (hPa).
func Refraction(altRad, tempC, pressureHPa float64) float64 {
	if pressureHPa <= 0 {
		return 0
	}
	altDeg := RadToDeg(altRad)
	if altDeg > 90 || altDeg < -1 {
		return 0
	}
	h := altDeg
	if h < -0.5 {
		h = -0.5
	}
	// Bennett (1982), arcminutes.
	rArcmin := 1.02 / math.Tan(DegToRad(h+10.3/(h+5.11)))
	// Scale for non-standard atmosphere.
	rArcmin *= (pressureHPa / 1010.0) * (283.0 / (273.0 + tempC))
	return DegToRad(rArcmin / 60.0)
}
