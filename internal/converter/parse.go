package converter

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const defaultWeeks = 8

var ErrInvalidRestPeriod = errors.New("invalid rest period")

var weeksPattern = regexp.MustCompile(`(?i)(\d+)\s*(weeks?|day)`)

// ParseRestPeriod converts "X" or "X-Y" minutes into whole seconds, using
// the upper bound of a range. Unparseable text yields 0 and an error.
func ParseRestPeriod(text string) (int, error) {
	parts := strings.Split(text, "-")
	last := strings.TrimSpace(parts[len(parts)-1])
	minutes, err := strconv.ParseFloat(last, 64)
	if err != nil || minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRestPeriod, text)
	}
	return int(math.Round(minutes * 60)), nil
}

// ExtractWeeks reads a program length out of a schedule summary. "N weeks"
// gives N; "N day" with N <= 7 is read as days per week and gives 4; no
// number at all gives 8.
func ExtractWeeks(summary string) int {
	m := weeksPattern.FindStringSubmatch(summary)
	if m == nil {
		return defaultWeeks
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return defaultWeeks
	}
	if strings.EqualFold(m[2], "day") && n <= 7 {
		return 4
	}
	return n
}
