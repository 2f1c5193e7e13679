package config

import (
	"errors"
	"fmt"
	"strings"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Accepted target years, matching the range a climate archive plausibly covers.
const (
	MinYear = 1900
	MaxYear = 2099
)

// RunRequest is the immutable input of one processing run: which stations to
// read, under which base directory, for which year.
type RunRequest struct {
	baseDir  string
	stations []string
	year     int
}

// NewRunRequest validates and freezes run input. Station names are trimmed;
// blank or duplicate names and years outside MinYear..MaxYear are rejected.
func NewRunRequest(baseDir string, stations []string, year int) (RunRequest, error) {
	if strings.TrimSpace(baseDir) == "" {
		return RunRequest{}, errors.New("base directory is required")
	}
	if len(stations) == 0 {
		return RunRequest{}, errors.New("at least one station is required")
	}

	names := make([]string, 0, len(stations))
	seen := make(map[string]struct{}, len(stations))
	for i, s := range stations {
		name := strings.TrimSpace(s)
		if name == "" {
			return RunRequest{}, fmt.Errorf("station %d: name cannot be empty", i+1)
		}
		if _, dup := seen[name]; dup {
			return RunRequest{}, fmt.Errorf("station %d: duplicate name %q", i+1, name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if year < MinYear || year > MaxYear {
		return RunRequest{}, fmt.Errorf("year %d outside %d..%d", year, MinYear, MaxYear)
	}

	return RunRequest{baseDir: baseDir, stations: names, year: year}, nil
}

// ParseStations splits a comma-separated station list, trimming names and
// dropping empty entries.
func ParseStations(list string) []string {
	return sharedcfg.ParseBrokers(list)
}

func (r RunRequest) BaseDir() string { return r.baseDir }

func (r RunRequest) Year() int { return r.year }

// Stations returns a copy of the station names in processing order.
func (r RunRequest) Stations() []string {
	out := make([]string, len(r.stations))
	copy(out, r.stations)
	return out
}
