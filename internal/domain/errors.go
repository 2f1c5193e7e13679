package domain

import "errors"

// File-level skip reasons. A file failing with any of these is skipped and
// its station keeps processing.
var (
	ErrDirectory     = errors.New("entry is a directory")
	ErrNoYearPattern = errors.New("no year pattern")
	ErrYearMismatch  = errors.New("year mismatch")
	ErrFormat        = errors.New("fewer than two fields")
	ErrRead          = errors.New("unreadable file")
)

// Station-level exclusion reasons.
var (
	ErrStationFolderMissing = errors.New("station folder missing")
	ErrNoFilesMatched       = errors.New("no files matched target year")
	ErrNoReadableFiles      = errors.New("no readable files for target year")
)

// Run-level failures.
var (
	ErrBaseDirMissing = errors.New("base directory missing")
	ErrNoStationData  = errors.New("no station yielded data")
	ErrExport         = errors.New("export failed")
)

// Reason returns the short label used in logs and metric labels for a skip
// or exclusion error.
func Reason(err error) string {
	for _, known := range []error{
		ErrDirectory, ErrNoYearPattern, ErrYearMismatch, ErrFormat, ErrRead,
		ErrStationFolderMissing, ErrNoFilesMatched, ErrNoReadableFiles,
	} {
		if errors.Is(err, known) {
			return reasonLabels[known]
		}
	}
	return "other"
}

var reasonLabels = map[error]string{
	ErrDirectory:            "directory",
	ErrNoYearPattern:        "no_year_pattern",
	ErrYearMismatch:         "year_mismatch",
	ErrFormat:               "format",
	ErrRead:                 "read",
	ErrStationFolderMissing: "folder_missing",
	ErrNoFilesMatched:       "no_files_matched",
	ErrNoReadableFiles:      "no_readable_files",
}
