package ephem

import "time"

// crossingDir describes which direction an altitude crossing must have.
type crossingDir int

const (
	crossingUp crossingDir = iota
	crossingDown
)

// searchSpec bounds the generic crossing search.
type searchSpec struct {
	steps int           // samples across the window
	tol   time.Duration // bisection tolerance
}

var defaultSearch = searchSpec{
	steps: 160, // ~9.5 minute sampling across a 25h window
	tol:   time.Second,
}

// findFirstCrossing locates the earliest time in (start, end] where f
// crosses zero in the requested direction, using a bracket-then-bisect
// strategy. Returns false if no such crossing exists in the window.
func findFirstCrossing(f func(time.Time) float64, start, end time.Time, dir crossingDir, spec searchSpec) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	if spec.steps < 2 {
		spec.steps = 2
	}

	interval := end.Sub(start) / time.Duration(spec.steps-1)

	prevT := start
	prevV := f(prevT)

	for i := 1; i < spec.steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		v := f(t)

		if hasCrossing(prevV, v, dir) {
			return bisectCrossing(f, prevT, t, dir, spec.tol), true
		}

		prevT, prevV = t, v
	}

	return time.Time{}, false
}

// findLastCrossing locates the latest crossing in [start, end), scanning
// the whole window and keeping the final bracket.
func findLastCrossing(f func(time.Time) float64, start, end time.Time, dir crossingDir, spec searchSpec) (time.Time, bool) {
	if !start.Before(end) {
		return time.Time{}, false
	}
	if spec.steps < 2 {
		spec.steps = 2
	}

	interval := end.Sub(start) / time.Duration(spec.steps-1)

	var (
		bracketA, bracketB time.Time
		found              bool
	)

	prevT := start
	prevV := f(prevT)

	for i := 1; i < spec.steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		v := f(t)

		if hasCrossing(prevV, v, dir) {
			bracketA, bracketB = prevT, t
			found = true
		}

		prevT, prevV = t, v
	}

	if !found {
		return time.Time{}, false
	}
	return bisectCrossing(f, bracketA, bracketB, dir, spec.tol), true
}

func hasCrossing(v1, v2 float64, dir crossingDir) bool {
	switch dir {
	case crossingUp:
		return v1 < 0 && v2 >= 0
	case crossingDown:
		return v1 > 0 && v2 <= 0
	default:
		return v1*v2 <= 0
	}
}

func bisectCrossing(f func(time.Time) float64, a, b time.Time, dir crossingDir, tol time.Duration) time.Time {
	vA := f(a)

	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		vM := f(mid)

		if hasCrossing(vA, vM, dir) {
			b = mid
		} else {
			a = mid
			vA = vM
		}
	}

	return a.Add(b.Sub(a) / 2)
}
