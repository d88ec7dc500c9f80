package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StationRecord identifies one DWD observation station. Loaded once per
// process from the local reference table and never mutated afterwards.
type StationRecord struct {
	ID        string // canonical 5-digit zero-padded form
	Name      string
	Region    string // Bundesland
	Latitude  float64
	Longitude float64
}

// ArchiveDescriptor locates one station's historical measurement archive.
// A station may have several published editions; the resolver picks the
// first one in listing order.
type ArchiveDescriptor struct {
	StationID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	URL         string // full archive URL
	EntryName   string // measurement text entry inside the zip
}

// CanonicalStationID reduces any accepted station identifier representation
// to the canonical 5-digit zero-padded string. Accepted forms are a numeric
// string (with or without leading zeros), an int, or an int64; anything else
// fails with ErrInvalidStationID.
func CanonicalStationID(id any) (string, error) {
	var n int64
	switch v := id.(type) {
	case string:
		s := strings.TrimSpace(v)
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidStationID, v)
		}
		n = parsed
	case int:
		n = int64(v)
	case int64:
		n = v
	default:
		return "", fmt.Errorf("%w: unsupported type %T", ErrInvalidStationID, id)
	}

	if n < 0 || n > 99999 {
		return "", fmt.Errorf("%w: %d out of range", ErrInvalidStationID, n)
	}
	return fmt.Sprintf("%05d", n), nil
}
