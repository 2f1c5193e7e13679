// Command genmock writes a synthetic climate data tree: one folder per
// station, each holding daily measurement files named "<station><MMDD>.<YY>".
// A few values are deliberately malformed and a few distractor entries are
// added so every skip path of the pipeline is exercised.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock -stations AS01,AS02 -years 1992,2021
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/couchcryptid/climate-data-etl/internal/config"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
)

// filesPerYear splits a year's readings across this many files, so station
// columns are built by concatenation.
const filesPerYear = 4

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory (created if missing)")
	stations := flag.String("stations", "AS01,AS02,AS03", "comma-separated station names")
	years := flag.String("years", "1992,2021", "comma-separated years to generate")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	yearList, err := parseYears(*years)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*seed, *seed))

	for i, name := range config.ParseStations(*stations) {
		dir := filepath.Join(*out, name)
		if err := os.MkdirAll(filepath.Join(dir, "archive"), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("station "+name+"\n"), 0o644); err != nil {
			return err
		}

		for _, y := range yearList {
			// Later stations lose a few trailing days so padding shows up.
			days := max(domain.DaysInYear(y)-3*i, filesPerYear)
			n, err := writeYear(rng, dir, name, y, days)
			if err != nil {
				return fmt.Errorf("station %s year %d: %w", name, y, err)
			}
			log.Printf("%s %d: %d files, %d records", name, y, filesPerYear, n)
		}
	}
	return nil
}

func parseYears(list string) ([]int, error) {
	var years []int
	for _, s := range strings.Split(list, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || y < 1951 || y > 2050 {
			return nil, fmt.Errorf("invalid year %q: must be 1951..2050 to fit a two-digit tag", s)
		}
		years = append(years, y)
	}
	return years, nil
}

// writeYear spreads days readings over filesPerYear files and returns the
// number of records written.
func writeYear(rng *rand.Rand, dir, station string, year, days int) (int, error) {
	per := (days + filesPerYear - 1) / filesPerYear
	day := 1
	for f := range filesPerYear {
		var b strings.Builder
		for ; day <= days && day <= (f+1)*per; day++ {
			fmt.Fprintf(&b, "%d %s %.1f\n", day, reading(rng, day), 40+rng.Float64()*50)
		}
		name := fmt.Sprintf("%s%02d01.%02d", station, f*3+1, year%100)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
			return 0, err
		}
	}
	return days, nil
}

// reading returns a temperature-like value, occasionally malformed.
func reading(rng *rand.Rand, day int) string {
	if rng.IntN(50) == 0 {
		return "-999x"
	}
	seasonal := 15 - 12*math.Cos(2*math.Pi*float64(day)/365)
	return strconv.FormatFloat(seasonal+rng.NormFloat64()*3, 'f', 1, 64)
}
