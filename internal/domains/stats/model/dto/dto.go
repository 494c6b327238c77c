package dto

// PeriodDelta compares one reporting window against the one before it.
// DeltaPercent is 0 when both windows are empty and 100 when revenue appears
// from nothing, so dashboards never divide by zero.
type PeriodDelta struct {
	Current      float64 `json:"current"`
	Previous     float64 `json:"previous"`
	DeltaPercent float64 `json:"delta_percent"`
}

type CountDelta struct {
	Current      int64   `json:"current"`
	Previous     int64   `json:"previous"`
	DeltaPercent float64 `json:"delta_percent"`
}

// RevenueStatsResponse aggregates room and table reservations together.
type RevenueStatsResponse struct {
	Week  PeriodDelta `json:"week"`
	Month PeriodDelta `json:"month"`
}

type BookingStatsResponse struct {
	Week  CountDelta `json:"week"`
	Month CountDelta `json:"month"`
}
