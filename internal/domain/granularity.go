package domain

// Granularity selects between the daily and monthly KL products.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityMonthly Granularity = "monthly"
)
