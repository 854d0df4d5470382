// Package exporter writes the generated CSV reports of the PM2.5 analysis.
//
// CSVWriter is the core writer: headers, streaming and a UTF-8 BOM so the
// Polish column names render correctly in Excel. On top of it sit typed
// report writers for the monthly, daily, exceedance and voivodeship
// aggregates and the station metadata.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths, logger)
//	err := writer.WriteMonthlyMeans(exporter.MonthlyMeansFile, means)
package exporter
