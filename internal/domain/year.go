package domain

import (
	"regexp"
	"strconv"
	"time"
)

// yearTagRe matches ".YY" at the end of a file name, optionally followed by
// one more extension: "AS010319.92" and "AS010319.92.txt" both yield "92".
var yearTagRe = regexp.MustCompile(`(?i)\.(\d{2})(\.[^.]*)?$`)

// centuryPivot splits two-digit tags: above it is 19xx, at or below is 20xx.
const centuryPivot = 50

// DecodeYear extracts the four-digit year encoded in a file name. The boolean
// is false when the name carries no year tag.
func DecodeYear(name string) (int, bool) {
	m := yearTagRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	tag, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return CenturyYear(tag), true
}

// CenturyYear maps a two-digit tag onto 1951..1999 or 2000..2050.
func CenturyYear(tag int) int {
	if tag > centuryPivot {
		return 1900 + tag
	}
	return 2000 + tag
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
