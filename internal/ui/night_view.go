package ui

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-nightplan/internal/night"
)

// sparkLevels maps normalized values to block characters.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// renderNightView shows the twilight windows, the Moon and a
// per-target altitude sparkline across the night.
func (m Model) renderNightView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Twilight"))
	b.WriteString("\n")
	if m.obs.Polar != night.PolarNone {
		b.WriteString("  " + warnStyle.Render(m.obs.Polar.String()) + dimStyle.Render(" — 24h grid around local midnight") + "\n")
	}
	for d := night.DepthHorizon; ; d++ {
		w, err := m.obs.Window(d)
		if err != nil {
			break
		}
		name := fmt.Sprintf("%-10s", d.String())
		if w == nil {
			b.WriteString("  " + dimStyle.Render(name+" —") + "\n")
			continue
		}
		line := fmt.Sprintf("%s %s → %s  %5.2f h",
			name,
			w.Sunset.In(m.obs.Loc).Format("15:04"),
			w.Sunrise.In(m.obs.Loc).Format("15:04"),
			w.LenNight())
		b.WriteString("  " + line + "\n")
	}

	if moon := m.obs.Moon; moon != nil {
		mid := len(moon.Phase) / 2
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Moon"))
		b.WriteString(fmt.Sprintf("\n  %.0f%% illuminated, %s\n", moon.Phase[mid], moon.Events.Status))
		b.WriteString("  " + renderSparkline(moon.Alt, m.sparkWidth()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Targets"))
	b.WriteString("\n")
	header := fmt.Sprintf("  %-16s %-10s %8s %8s  %s", "Name", "Status", "MaxAlt", "Airmass", "Altitude across night")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.targets) == 0 {
		b.WriteString(dimStyle.Render("  No targets — pass -target ra,dec,name") + "\n")
		return b.String()
	}

	for i, tr := range m.targets {
		maxAlt, minAM := maxAltMinAirmass(tr)
		row := fmt.Sprintf("%-16s %-10s %7.1f° %8.2f  %s",
			truncate(tr.Body.Name, 16),
			tr.Events.Status,
			maxAlt, minAM,
			renderSparkline(tr.Alt, m.sparkWidth()))
		if i == m.cursor {
			b.WriteString("  " + selectedRowStyle.Render(row))
		} else {
			b.WriteString("  " + rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) sparkWidth() int {
	w := m.width - 56
	if w < 16 {
		w = 16
	}
	if w > 60 {
		w = 60
	}
	return w
}

// renderSparkline compresses an altitude series into width block
// characters; below-horizon samples render as dots.
func renderSparkline(series []float64, width int) string {
	if len(series) == 0 || width <= 0 {
		return ""
	}
	var max float64
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		v := series[i*len(series)/width]
		if v <= 0 || max <= 0 {
			b.WriteRune('·')
			continue
		}
		lvl := int(v / max * float64(len(sparkLevels)-1))
		b.WriteRune(sparkLevels[lvl])
	}
	return b.String()
}

func maxAltMinAirmass(tr *night.Trajectory) (float64, float64) {
	if len(tr.Alt) == 0 {
		return 0, 0
	}
	maxAlt, minAM := tr.Alt[0], tr.Airmass[0]
	for i := range tr.Alt {
		if tr.Alt[i] > maxAlt {
			maxAlt = tr.Alt[i]
		}
		if tr.Airmass[i] < minAM {
			minAM = tr.Airmass[i]
		}
	}
	return maxAlt, minAM
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-2] + ".."
}
