package domain

import "errors"

// Sentinel errors for the ingestion pipeline. Callers branch with errors.Is;
// adapters wrap these with fmt.Errorf("...: %w", ...) to add detail.
var (
	// ErrRemoteUnavailable means the directory listing could not be fetched.
	ErrRemoteUnavailable = errors.New("remote index unavailable")

	// ErrDownloadFailed means the archive HTTP fetch did not succeed.
	ErrDownloadFailed = errors.New("archive download failed")

	// ErrArchiveCorrupt means the zip container could not be opened or the
	// expected measurement entry is missing from it.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrParseFailed means the delimited content could not be tokenized into
	// the expected column set.
	ErrParseFailed = errors.New("measurement content parse failed")

	// ErrInvalidStationID means the caller-supplied identifier is not one of
	// the accepted representations. Rejected before any network call.
	ErrInvalidStationID = errors.New("invalid station identifier")

	// ErrInvalidDate means a date cell could not be parsed as YYYYMMDD.
	ErrInvalidDate = errors.New("invalid measurement date")

	// ErrEmptySeries means normalization dropped every row, so there is no
	// usable series to hand to the caller.
	ErrEmptySeries = errors.New("no usable measurement rows")
)
