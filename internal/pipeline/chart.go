package pipeline

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"pinmap-tracker/internal/model"
)

// ------------------- Top-N chart -------------------

// TopCountries returns the n countries with the highest counts as of the
// latest date in the table. The sort on count is stable, so ties keep the
// alphabetical order the table already has. Countries absent at the latest
// date are excluded even if they appear earlier in history.
func TopCountries(table model.HistoryTable, n int) []string {
	latest := table.AtDate(table.LatestDate())
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].LocationCount > latest[j].LocationCount
	})
	if n > len(latest) {
		n = len(latest)
	}
	countries := make([]string, 0, n)
	for _, row := range latest[:n] {
		countries = append(countries, row.Country)
	}
	return countries
}

// RenderChart draws one line+point series per top-N country over the full
// history and saves it as an SVG. The y axis is logarithmic with plain-number
// tick labels; the x axis ticks monthly. Cosmetic output: no downstream
// consumer reads it.
func RenderChart(table model.HistoryTable, spec model.RunSpec) error {
	if len(table) == 0 {
		return fmt.Errorf("cannot chart an empty history table")
	}

	top := TopCountries(table, spec.TopN)
	filtered := table.FilterCountries(top)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d pinball countries\nas of %s",
		spec.TopN, table.LatestDate().Format("2006-01-02"))
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = monthTicker{}
	p.Y.Label.Text = "Locations"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	series := make([]interface{}, 0, 2*len(top))
	for _, country := range top {
		var xys plotter.XYs
		for _, row := range filtered {
			if row.Country != country {
				continue
			}
			// Zero counts have no place on a log scale; they stay in
			// the CSV but are left off the chart.
			if row.LocationCount == 0 {
				continue
			}
			xys = append(xys, plotter.XY{
				X: float64(row.Date.Unix()),
				Y: float64(row.LocationCount),
			})
		}
		series = append(series, country, xys)
	}

	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return fmt.Errorf("failed to add chart series: %w", err)
	}

	if err := p.Save(7*vg.Inch, 4*vg.Inch, spec.ChartPath); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}

	fmt.Printf("📈 Chart written: %s (%d countries)\n", spec.ChartPath, len(top))
	return nil
}

// monthTicker places one labeled tick on the first day of every month in
// range. X values are Unix seconds; labels read "2024 Mar".
type monthTicker struct{}

func (monthTicker) Ticks(min, max float64) []plot.Tick {
	start := time.Unix(int64(min), 0).UTC()
	tick := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	if tick.Before(start) {
		tick = tick.AddDate(0, 1, 0)
	}

	var ticks []plot.Tick
	for !tick.After(time.Unix(int64(max), 0).UTC()) {
		ticks = append(ticks, plot.Tick{
			Value: float64(tick.Unix()),
			Label: tick.Format("2006 Jan"),
		})
		tick = tick.AddDate(0, 1, 0)
	}
	return ticks
}
