// Package airquality extracts daily pollutant series from the monthly CSV
// exports published by the Madrid open-data portal.
//
// Each export row holds one station/pollutant/month with one column per day
// of the month (D01..D31). ExtractDaily filters the rows of one station and
// pollutant and reshapes the day columns into a date-indexed Series:
//
//	s, err := airquality.ExtractDaily("datos2020.csv", "28079035", airquality.NO2)
//	if err != nil {
//	    return err
//	}
//	for _, p := range s.DropMissing().Points {
//	    fmt.Println(p.Date.Format("2006-01-02"), p.Value)
//	}
//
// ExtractDailyMany runs the same extraction over several yearly files and
// returns one series sorted by date.
//
// # Missing readings
//
// The portal encodes "no reading" as 0. Such values, and empty cells, are kept
// in the series as NaN so the calendar position of the gap is preserved.
// Day columns that do not form a real date (D31 in April, D30 in February)
// are dropped.
//
// The package does no logging and keeps no state between calls; every call
// reads its files fully into memory.
package airquality
