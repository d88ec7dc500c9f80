// Package domain models DWD (Deutscher Wetterdienst) daily climate data.
//
// # Data Source
//
// Measurements come from the DWD open-data server's historical daily climate
// ("KL") archives, published per station under
// https://opendata.dwd.de/climate_environment/CDC/observations_germany/climate/daily/kl/historical/.
// Each archive is a zip named
//
//	tageswerte_KL_<station>_<start>_<end>_hist.zip
//
// containing a single semicolon-delimited, ISO 8859-1 encoded text entry
//
//	produkt_klima_tag_<start>_<end>_<station>.txt
//
// whose first line is a whitespace-padded header row. Monthly archives use
// the monatswerte/monat tokens instead.
//
// # Column Conventions
//
// The KL product columns carried through normalization:
//
//	MESS_DATUM  calendar date, 8 digits YYYYMMDD
//	TXK         daily maximum air temperature at 2m, °C
//	TNK         daily minimum air temperature at 2m, °C
//	TMK         daily mean temperature, °C
//	TGK         minimum air temperature at 5cm above ground, °C
//	RSK         precipitation height, mm
//	RSKF        precipitation form, numeric code (see below)
//	SHK_TAG     snow depth, cm
//	UPM         mean relative humidity, %
//	VPM         mean vapor pressure, hPa
//	NM          mean cloud cover, eighths (okta 0-8)
//
// # Missing Values
//
// The literal -999 is the DWD sentinel for a reading that was not taken.
// Normalization maps it, and any cell that fails numeric coercion, to an
// explicit absent [Value]. Absence is a first-class state: aggregations skip
// absent readings, they never treat them as zero.
//
// # Precipitation Form Codes (RSKF)
//
//	0  no precipitation
//	1  rain
//	4  rain (form unknown)
//	6  rain (automated)
//	7  snow
//	8  sleet
//	9  indeterminate (measurement flagged)
//
// Codes 2, 3, and 5 are unassigned in the KL product; [RainType] resolves
// them, and any other unmapped code, to the unknown category.
//
// # Station Identifiers
//
// Stations are named by a 5-digit zero-padded numeric code. Callers may pass
// the code as a string, an int, or an int64; [CanonicalStationID] reduces
// all accepted forms to the canonical string before any network activity.
package domain
