package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrEstimateFormat = errors.New("estimate must be minutes or a duration such as PT1H30M or 1h30m")

var isoDurationPart = regexp.MustCompile(`(\d+)([HMS])`)

// ParseEstimate reads a time estimate and returns it in whole minutes,
// rounding partial minutes up. Accepted forms are a plain number of
// minutes ("90"), an ISO 8601 time duration ("PT1H30M") and a Go
// duration ("1h30m"). Durations that are not positive fail with
// ErrEstimateNotPos; plain minute counts are left to Task.Validate.
func ParseEstimate(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrEstimateFormat
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return minutes, nil
	}

	var d time.Duration
	var err error
	if strings.HasPrefix(strings.ToUpper(value), "P") {
		d, err = parseISODuration(strings.ToUpper(value))
	} else {
		d, err = time.ParseDuration(value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEstimateFormat, err)
	}

	if d <= 0 {
		return 0, ErrEstimateNotPos
	}

	minutes := d / time.Minute
	if d%time.Minute != 0 {
		minutes++
	}
	return int(minutes), nil
}

// parseISODuration handles the time part of ISO 8601 durations (PT1H, PT30M,
// PT1H30M15S). Date components are not supported.
func parseISODuration(s string) (time.Duration, error) {
	rest, ok := strings.CutPrefix(s, "PT")
	if !ok || rest == "" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}

	matches := isoDurationPart.FindAllStringSubmatch(rest, -1)
	consumed := 0
	var total time.Duration
	for _, match := range matches {
		consumed += len(match[0])
		value, err := strconv.Atoi(match[1])
		if err != nil {
			return 0, err
		}
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}
	if consumed != len(rest) {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	return total, nil
}
