package domain

import "math"

// CategoryUnknown is returned for any code outside the fixed lookup tables.
// Unmapped codes are expected in historical data and are never an error.
const CategoryUnknown = "unknown"

// rainTypes maps the RSKF precipitation-form code to a display category.
// The DWD code list has gaps (2, 3, 5 are unassigned in the KL product).
var rainTypes = map[int]string{
	0: "no precipitation",
	1: "rain",
	4: "rain",
	6: "rain",
	7: "snow",
	8: "sleet",
	9: "indeterminate",
}

// cloudCoverCategories maps mean cloud cover in eighths (okta 0-8) to a
// display category.
var cloudCoverCategories = map[int]string{
	0: "clear",
	1: "mostly clear",
	2: "mostly clear",
	3: "partly cloudy",
	4: "partly cloudy",
	5: "mostly cloudy",
	6: "mostly cloudy",
	7: "overcast",
	8: "overcast",
}

// RainType resolves a precipitation-form code to its category.
func RainType(code int) string {
	if t, ok := rainTypes[code]; ok {
		return t
	}
	return CategoryUnknown
}

// CloudCoverCategory resolves a mean cloud-cover reading to its category.
// The mean is rounded to the nearest okta before lookup; absent or
// out-of-range readings resolve to the unknown category.
func CloudCoverCategory(cover Value) string {
	eighths, ok := cover.Float()
	if !ok {
		return CategoryUnknown
	}
	if c, ok := cloudCoverCategories[int(math.Round(eighths))]; ok {
		return c
	}
	return CategoryUnknown
}
