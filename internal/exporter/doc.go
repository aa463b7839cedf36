// Package exporter writes daily series to CSV and XLSX files.
//
// CSV exports have a date,value header, ISO dates and an empty value for
// missing readings. An optional UTF-8 BOM helps Excel detect the encoding.
// XLSX exports hold one sheet named after the series with real date cells.
//
//	csvw := exporter.NewCSVWriter(logger)
//	err := csvw.WriteSeries("exports/NO2@28079035.csv", series, exporter.WriteOptions{BOMPrefix: true})
//
//	xlsw := exporter.NewXLSXWriter(logger)
//	err = xlsw.WriteSeries("exports/NO2@28079035.xlsx", series, exporter.WriteOptions{})
package exporter
