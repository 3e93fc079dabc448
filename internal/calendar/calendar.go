// Package calendar answers "is this date a trading day" given a static set
// of special holidays. A trading day is a weekday (Mon-Fri) not present in
// the holiday set. Half-days and per-venue calendars are intentionally not
// modelled.
package calendar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
)

// HolidaySet is an immutable set of non-trading special dates, keyed by
// "YYYY-MM-DD". It is loaded once per run and never mutated afterwards.
type HolidaySet map[string]struct{}

// Load reads a holiday file with one YYYY-MM-DD date per line. Blank lines
// and lines starting with '#' are skipped. Any other malformed line is an
// error: a silently dropped holiday would let non-trading rows into storage.
func Load(path string) (HolidaySet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday file: %w", err)
	}
	defer f.Close()

	set := make(HolidaySet)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := time.Parse(model.DateLayout, line); err != nil {
			return nil, fmt.Errorf("holiday file line %d: bad date %q: %w", lineNo, line, err)
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	return set, nil
}

// Contains reports whether date d is in the set.
func (s HolidaySet) Contains(d time.Time) bool {
	_, ok := s[d.Format(model.DateLayout)]
	return ok
}

// IsTradingDay reports whether d is a Monday-Friday date not contained in
// the holiday set. Pure and total.
func IsTradingDay(d time.Time, holidays HolidaySet) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !holidays.Contains(d)
}
