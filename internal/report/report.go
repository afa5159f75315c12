// Package report renders night windows, target trajectories and
// observability statistics as text tables and JSON for headless use.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-nightplan/internal/night"
)

// NightExport is the JSON-serializable representation of a computed
// night and its targets.
type NightExport struct {
	Site       string          `json:"site"`
	LocalNight time.Time       `json:"local_night"`
	Polar      string          `json:"polar,omitempty"`
	Twilight   []WindowExport  `json:"twilight"`
	Moon       *TargetExport   `json:"moon,omitempty"`
	Targets    []*TargetExport `json:"targets,omitempty"`
}

// WindowExport is a JSON-friendly twilight window.
type WindowExport struct {
	Depth    string     `json:"depth"`
	Sunset   *time.Time `json:"sunset,omitempty"`
	Sunrise  *time.Time `json:"sunrise,omitempty"`
	LenNight float64    `json:"len_night_hours"`
}

// TargetExport is a JSON-friendly trajectory with its events.
type TargetExport struct {
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	Rise       *time.Time `json:"rise,omitempty"`
	RiseAz     float64    `json:"rise_az,omitempty"`
	Set        *time.Time `json:"set,omitempty"`
	SetAz      float64    `json:"set_az,omitempty"`
	Transit    time.Time  `json:"transit"`
	TransitAlt float64    `json:"transit_alt"`
	TransitAz  float64    `json:"transit_az"`
	RA         float64    `json:"ra"`
	Dec        float64    `json:"dec"`
	MaxAlt     float64    `json:"max_alt"`
	MinAirmass float64    `json:"min_airmass"`
	Phase      float64    `json:"phase,omitempty"`
}

// ExportNight converts a processed observer and its sampled targets to
// an exportable snapshot.
func ExportNight(o *night.Observer, targets []*night.Trajectory) *NightExport {
	export := &NightExport{
		Site:       o.Site.ID,
		LocalNight: o.LocalNight,
	}
	if o.Polar != night.PolarNone {
		export.Polar = o.Polar.String()
	}
	for d := night.DepthHorizon; ; d++ {
		w, err := o.Window(d)
		if err != nil {
			break
		}
		we := WindowExport{Depth: d.String()}
		if w != nil {
			ss, sr := w.Sunset, w.Sunrise
			we.Sunset, we.Sunrise = &ss, &sr
			we.LenNight = w.LenNight()
		}
		export.Twilight = append(export.Twilight, we)
	}
	if o.Moon != nil {
		export.Moon = exportTarget("Moon", o.Moon)
	}
	for _, tr := range targets {
		export.Targets = append(export.Targets, exportTarget(tr.Body.Name, tr))
	}
	return export
}

func exportTarget(name string, tr *night.Trajectory) *TargetExport {
	ev := tr.Events
	te := &TargetExport{
		Name:       name,
		Status:     ev.Status.String(),
		Transit:    ev.Transit,
		TransitAlt: ev.TransitAlt,
		TransitAz:  ev.TransitAz,
		RA:         tr.RA,
		Dec:        tr.Dec,
	}
	if ev.Status == night.StatusNormal {
		rise, set := ev.Rise, ev.Set
		te.Rise, te.Set = &rise, &set
		te.RiseAz, te.SetAz = ev.RiseAz, ev.SetAz
	}
	if len(tr.Alt) > 0 {
		te.MaxAlt = tr.Alt[0]
		te.MinAirmass = tr.Airmass[0]
		for i := range tr.Alt {
			if tr.Alt[i] > te.MaxAlt {
				te.MaxAlt = tr.Alt[i]
			}
			if tr.Airmass[i] < te.MinAirmass {
				te.MinAirmass = tr.Airmass[i]
			}
		}
	}
	if tr.Phase != nil {
		te.Phase = tr.Phase[len(tr.Phase)/2]
	}
	return te
}

// WriteJSON writes the export as indented JSON.
func (e *NightExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// WriteNightSummary writes the twilight table for a processed night.
func WriteNightSummary(w io.Writer, o *night.Observer) {
	fmt.Fprintf(w, "%s (%s) — night of %s\n",
		o.Site.Name, o.Site.ID, o.LocalNight.Format("2006-01-02"))
	fmt.Fprintln(w, strings.Repeat("─", 64))

	if o.Polar != night.PolarNone {
		fmt.Fprintf(w, "%s: no horizon sunset/sunrise, 24h grid around local midnight\n", o.Polar)
	}

	fmt.Fprintf(w, "%-10s %-20s %-20s %-8s\n", "Depth", "Sunset", "Sunrise", "Hours")
	fmt.Fprintln(w, strings.Repeat("─", 64))
	for d := night.DepthHorizon; ; d++ {
		win, err := o.Window(d)
		if err != nil {
			break
		}
		if win == nil {
			fmt.Fprintf(w, "%-10s %-20s %-20s %-8s\n", d, "—", "—", "—")
			continue
		}
		fmt.Fprintf(w, "%-10s %-20s %-20s %6.2f\n",
			d,
			win.Sunset.In(o.Loc).Format("15:04 MST"),
			win.Sunrise.In(o.Loc).Format("15:04 MST"),
			win.LenNight())
	}

	if o.Moon != nil {
		mid := len(o.Moon.Phase) / 2
		fmt.Fprintf(w, "\nMoon: %s, %.0f%% illuminated\n",
			o.Moon.Events.Status, o.Moon.Phase[mid])
	}
}

// WriteTargetTable writes a trajectory summary followed by subsampled
// per-instant rows.
func WriteTargetTable(w io.Writer, o *night.Observer, tr *night.Trajectory, maxRows int) {
	ev := tr.Events
	fmt.Fprintf(w, "%s  RA %.4f°  Dec %+.4f°\n", tr.Body.Name, tr.RA, tr.Dec)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	switch ev.Status {
	case night.StatusAlwaysUp:
		fmt.Fprintln(w, "Circumpolar: never sets at this site")
	case night.StatusNeverUp:
		fmt.Fprintln(w, "Never rises at this site")
	default:
		fmt.Fprintf(w, "Rise    %s  az %5.1f°\n", ev.Rise.In(o.Loc).Format("15:04 MST"), ev.RiseAz)
		fmt.Fprintf(w, "Set     %s  az %5.1f°\n", ev.Set.In(o.Loc).Format("15:04 MST"), ev.SetAz)
	}
	fmt.Fprintf(w, "Transit %s  az %5.1f°  alt %+5.1f°\n\n",
		ev.Transit.In(o.Loc).Format("15:04 MST"), ev.TransitAz, ev.TransitAlt)

	fmt.Fprintf(w, "%-12s %7s %7s %8s %8s", "Local", "Alt", "Az", "HA", "Airmass")
	if tr.MoonDist != nil {
		fmt.Fprintf(w, " %9s", "MoonSep")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", 72))

	step := 1
	if maxRows > 0 && len(o.Dates) > maxRows {
		step = (len(o.Dates) + maxRows - 1) / maxRows
	}
	for i := 0; i < len(o.Dates); i += step {
		fmt.Fprintf(w, "%-12s %6.1f° %6.1f° %+7.1f° %8.2f",
			o.Dates[i].In(o.Loc).Format("15:04"),
			tr.Alt[i], tr.Az[i], tr.HA[i], tr.Airmass[i])
		if tr.MoonDist != nil {
			fmt.Fprintf(w, " %8.1f°", tr.MoonDist[i])
		}
		fmt.Fprintln(w)
	}
}

// WriteWhenObs writes the per-night observability buckets in hours.
func WriteWhenObs(w io.Writer, targetName string, stats []night.DayStats) {
	fmt.Fprintf(w, "Observability of %s over %d nights (hours per bucket)\n", targetName, len(stats))
	fmt.Fprintln(w, strings.Repeat("─", 96))
	fmt.Fprintf(w, "%-12s %5s %5s %5s %9s %5s %9s %8s %8s %6s\n",
		"Night", "obs", "moon", "dusk", "duskmoon", "dawn", "dawnmoon", "darklow", "twilow", "total")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, st := range stats {
		fmt.Fprintf(w, "%-12s %5.1f %5.1f %5.1f %9.1f %5.1f %9.1f %8.1f %8.1f %6.1f\n",
			st.Night.Format("2006-01-02"),
			st.Obs, st.Moon, st.Dusk, st.DuskMoon, st.Dawn, st.DawnMoon,
			st.DarkLow, st.TwilightLow, st.Total())
	}
}
