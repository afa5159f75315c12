package astro

import (
	"math"
	"time"
)

// Precess converts a J2000.0 mean position to the mean equator and equinox
// of the given date, using the rigid-rotation angles of Meeus chapter 21.
func Precess(eq Equatorial, t time.Time) Equatorial {
	T := (JulianDate(t) - J2000) / 36525.0

	// Precession angles in arcseconds, starting epoch J2000.0.
	zeta := 2306.2181 * T
	zeta += 0.30188 * T * T
	zeta += 0.017998 * T * T * T

	z := 2306.2181 * T
	z += 1.09468 * T * T
	z += 0.018203 * T * T * T

	theta := 2004.3109 * T
	theta -= 0.42665 * T * T
	theta -= 0.041833 * T * T * T

	zetaR := DegToRad(zeta / 3600)
	zR := DegToRad(z / 3600)
	thetaR := DegToRad(theta / 3600)

	A := math.Cos(eq.Dec) * math.Sin(eq.RA+zetaR)
	B := math.Cos(thetaR)*math.Cos(eq.Dec)*math.Cos(eq.RA+zetaR) - math.Sin(thetaR)*math.Sin(eq.Dec)
	C := math.Sin(thetaR)*math.Cos(eq.Dec)*math.Cos(eq.RA+zetaR) + math.Cos(thetaR)*math.Sin(eq.Dec)

	ra := math.Atan2(A, B) + zR
	dec := math.Asin(clamp(C, -1, 1))

	return Equatorial{RA: NormalizeAngle(ra), Dec: dec}
}
