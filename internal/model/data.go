package model

import "time"

// CountryCount is one projected snapshot row: a country and its number of
// pinball locations at capture time. Extra API fields are not carried here.
type CountryCount struct {
	Country       string `json:"country"`
	LocationCount int    `json:"location_count"`
}

// HistoryRecord is one row of the reconstructed history: a snapshot row
// tagged with the capture date parsed out of the snapshot's filename.
type HistoryRecord struct {
	Country       string    `json:"country"`
	LocationCount int       `json:"location_count"`
	Date          time.Time `json:"date"`
}

// HistoryTable is the full long-form history across all stored snapshots,
// sorted ascending by date, then by country name.
type HistoryTable []HistoryRecord

// LatestDate returns the maximum date present in the table. The table is
// sorted, so this is the date of the last row. Zero time for an empty table.
func (t HistoryTable) LatestDate() time.Time {
	if len(t) == 0 {
		return time.Time{}
	}
	return t[len(t)-1].Date
}

// AtDate returns the rows captured on the given date, in table order.
func (t HistoryTable) AtDate(date time.Time) HistoryTable {
	var rows HistoryTable
	for _, r := range t {
		if r.Date.Equal(date) {
			rows = append(rows, r)
		}
	}
	return rows
}

// FilterCountries returns the rows whose country is in the given set,
// preserving table order.
func (t HistoryTable) FilterCountries(countries []string) HistoryTable {
	keep := make(map[string]bool, len(countries))
	for _, c := range countries {
		keep[c] = true
	}
	var rows HistoryTable
	for _, r := range t {
		if keep[r.Country] {
			rows = append(rows, r)
		}
	}
	return rows
}
