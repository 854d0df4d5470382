package domain

import "time"

// DefaultDailyThreshold is the daily-mean PM2.5 guideline value in µg/m³
// used for exceedance counting when no other threshold is configured.
const DefaultDailyThreshold = 15.0

// MonthlyMean is the mean PM2.5 concentration for one station in one month.
type MonthlyMean struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	City    string  `json:"city"`
	Station string  `json:"station"`
	Mean    float64 `json:"mean"`
}

// CityMonthlyMean is the monthly mean averaged over all stations of a city.
type CityMonthlyMean struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	City  string  `json:"city"`
	Mean  float64 `json:"mean"`
}

// DailyMean is the mean concentration for one station on one calendar day.
type DailyMean struct {
	Year    int       `json:"year"`
	Date    time.Time `json:"date"` // midnight UTC of the calendar day
	City    string    `json:"city"`
	Station string    `json:"station"`
	Mean    float64   `json:"mean"`
}

// ExceedanceCount is the number of exceedance days for one station in one
// year: calendar days whose daily mean exceeded the threshold.
type ExceedanceCount struct {
	Year    int    `json:"year"`
	Station string `json:"station"`
	Days    int    `json:"days"`
}

// VoivodeshipCount is the number of days a voivodeship-wide mean exceeded
// the threshold.
type VoivodeshipCount struct {
	Voivodeship string `json:"voivodeship"`
	Days        int    `json:"days"`
}
