// Package files finds the yearly air-quality exports in the data directory
// and manages the files written to the export directory.
//
// Discovery detects the year of an export from its name, the first 19xx or
// 20xx substring, so "datos201901.csv" and "28079_2019.csv" both count as
// 2019:
//
//	discovery := files.NewDiscovery(dataDir)
//	yearly, err := discovery.FindYearlyFiles(".", "*.csv", 2018, 2020)
//	series, err := airquality.ExtractDailyMany(files.Paths(yearly), "28079035", airquality.NO2)
//
// Manager resolves export file names inside the export directory.
package files
