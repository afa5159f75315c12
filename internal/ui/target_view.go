package ui

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-nightplan/internal/night"
)

// renderTargetView shows the selected target's events and a subsampled
// trajectory table.
func (m Model) renderTargetView() string {
	if m.cursor >= len(m.targets) {
		return dimStyle.Render("No target selected")
	}
	tr := m.targets[m.cursor]
	ev := tr.Events

	var b strings.Builder
	b.WriteString(titleStyle.Render(tr.Body.Name))
	b.WriteString(fmt.Sprintf("  RA %.4f°  Dec %+.4f°\n\n", tr.RA, tr.Dec))

	switch ev.Status {
	case night.StatusAlwaysUp:
		b.WriteString(goodStyle.Render("Circumpolar — never sets at this site") + "\n")
	case night.StatusNeverUp:
		b.WriteString(badStyle.Render("Never rises at this site") + "\n")
	default:
		b.WriteString(fmt.Sprintf("Rise    %s   az %5.1f°\n",
			ev.Rise.In(m.obs.Loc).Format("15:04 MST"), ev.RiseAz))
		b.WriteString(fmt.Sprintf("Set     %s   az %5.1f°\n",
			ev.Set.In(m.obs.Loc).Format("15:04 MST"), ev.SetAz))
	}
	b.WriteString(fmt.Sprintf("Transit %s   az %5.1f°   alt %+5.1f°\n\n",
		ev.Transit.In(m.obs.Loc).Format("15:04 MST"), ev.TransitAz, ev.TransitAlt))

	header := fmt.Sprintf("%-8s %7s %7s %8s %8s", "Local", "Alt", "Az", "HA", "Airmass")
	if tr.MoonDist != nil {
		header += fmt.Sprintf(" %9s", "MoonSep")
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 14
	if maxRows < 6 {
		maxRows = 6
	}
	step := 1
	if len(m.obs.Dates) > maxRows {
		step = (len(m.obs.Dates) + maxRows - 1) / maxRows
	}
	nowIdx := m.obs.NowIndex()
	for i := 0; i < len(m.obs.Dates); i += step {
		row := fmt.Sprintf("%-8s %6.1f° %6.1f° %+7.1f° %8.2f",
			m.obs.Dates[i].In(m.obs.Loc).Format("15:04"),
			tr.Alt[i], tr.Az[i], tr.HA[i], tr.Airmass[i])
		if tr.MoonDist != nil {
			sep := tr.MoonDist[i]
			sepStr := fmt.Sprintf(" %8.1f°", sep)
			if sep < m.obs.MoonAvoidDeg {
				sepStr = badStyle.Render(sepStr)
			}
			row += sepStr
		}
		if nowIdx >= 0 && nowIdx >= i && nowIdx < i+step {
			row = selectedRowStyle.Render(row + "  ← now")
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

// renderWhenObsView shows the per-night observability buckets.
func (m Model) renderWhenObsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Observability — " + m.whenObsFor))
	b.WriteString(fmt.Sprintf("  (%d nights, hours per bucket)\n\n", len(m.whenObs)))

	header := fmt.Sprintf("%-12s %5s %5s %5s %6s %5s %6s %7s %7s",
		"Night", "obs", "moon", "dusk", "dkmoon", "dawn", "dwmoon", "darklo", "twilo")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	maxRows := m.height - 10
	if maxRows < 5 {
		maxRows = 5
	}
	for i, st := range m.whenObs {
		if i >= maxRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more nights", len(m.whenObs)-i)))
			b.WriteString("\n")
			break
		}
		row := fmt.Sprintf("%-12s %5.1f %5.1f %5.1f %6.1f %5.1f %6.1f %7.1f %7.1f",
			st.Night.Format("2006-01-02"),
			st.Obs, st.Moon, st.Dusk, st.DuskMoon, st.Dawn, st.DawnMoon,
			st.DarkLow, st.TwilightLow)
		switch {
		case st.Obs >= 4:
			row = goodStyle.Render(row)
		case st.Obs > 0:
			row = warnStyle.Render(row)
		default:
			row = dimStyle.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}
