package night

import (
	"fmt"
	"time"

	"github.com/litescript/ls-nightplan/internal/ephem"
)

// DayStats buckets one night's grid samples by observing condition.
// Each sample contributes the grid spacing in hours to exactly one
// bucket.
type DayStats struct {
	// Night is the local-midnight anchor of the night the stats cover.
	Night time.Time

	Obs         float64 // dark, high enough, Moon clear
	Moon        float64 // dark, high enough, Moon too close
	Dusk        float64 // before astronomical dusk, high enough, Moon clear
	DuskMoon    float64 // before astronomical dusk, high enough, Moon too close
	Dawn        float64 // after astronomical dawn, high enough, Moon clear
	DawnMoon    float64 // after astronomical dawn, high enough, Moon too close
	DarkLow     float64 // dark but below the observing altitude
	TwilightLow float64 // twilight and below the observing altitude
}

// Total returns the bucketed night duration in hours.
func (s DayStats) Total() float64 {
	return s.Obs + s.Moon + s.Dusk + s.DuskMoon + s.Dawn + s.DawnMoon + s.DarkLow + s.TwilightLow
}

// WhenObs reduces a target's observability over a range of nights: for
// each calendar day in [from, to), stepped by stepDays, it recomputes
// the night window and the target's trajectory, then buckets every
// night-time sample by altitude, twilight zone and lunar separation.
//
// The receiver is left untouched; the per-day recomputation runs on a
// scratch copy of the observer.
func (o *Observer) WhenObs(b ephem.Body, from, to time.Time, stepDays int, grid GridConfig) ([]DayStats, error) {
	if stepDays < 1 {
		stepDays = 1
	}
	scratch := *o

	var out []DayStats
	for day := from; day.Before(to); day = day.AddDate(0, 0, stepDays) {
		if _, err := scratch.UpdateDate(DateOptions{UT: day, Force: true, Grid: grid}); err != nil {
			return nil, fmt.Errorf("night of %s: %w", day.Format("2006-01-02"), err)
		}
		st, err := scratch.classifyNight(b)
		if err != nil {
			return nil, fmt.Errorf("night of %s: %w", day.Format("2006-01-02"), err)
		}
		out = append(out, st)
	}
	return out, nil
}

func (o *Observer) classifyNight(b ephem.Body) (DayStats, error) {
	st := DayStats{Night: o.LocalNight}
	dt := o.Dates[1].Sub(o.Dates[0]).Hours()

	horizonW, _ := o.Window(DepthHorizon)
	if horizonW == nil && o.Polar != PolarNight {
		// Polar day: the whole grid is twilight at best.
		st.Dusk = float64(len(o.Dates)) * dt
		return st, nil
	}

	traj, err := o.Sample(b)
	if err != nil {
		return DayStats{}, err
	}
	astroW, _ := o.Window(DepthAstro)

	for i, t := range o.Dates {
		if horizonW != nil && (!t.After(horizonW.Sunset) || !t.Before(horizonW.Sunrise)) {
			continue // daytime sample
		}
		lowAlt := traj.Alt[i] < o.HorizonObsDeg
		// With no astronomical darkness the entire night counts as
		// twilight.
		dusk := astroW == nil || t.Before(astroW.Sunset)
		dawn := astroW == nil || t.After(astroW.Sunrise)
		nearMoon := traj.MoonDist != nil && traj.MoonDist[i] < o.MoonAvoidDeg

		switch {
		case lowAlt && (dusk || dawn):
			st.TwilightLow += dt
		case lowAlt:
			st.DarkLow += dt
		case dusk && nearMoon:
			st.DuskMoon += dt
		case dusk:
			st.Dusk += dt
		case dawn && nearMoon:
			st.DawnMoon += dt
		case dawn:
			st.Dawn += dt
		case nearMoon:
			st.Moon += dt
		default:
			st.Obs += dt
		}
	}
	return st, nil
}
