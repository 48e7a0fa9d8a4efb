package conll

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/revelaction/corefbridge/errs"
)

// Markers are the coreference brackets of a token: "(N" opens chain N,
// "N)" closes it and "(N)" is a one-token mention.
type Markers struct {
	Opens      []int
	Singletons []int
	Closes     []int
}

// Empty reports whether the token carries no marker.
func (m Markers) Empty() bool {
	return len(m.Opens) == 0 && len(m.Singletons) == 0 && len(m.Closes) == 0
}

// String writes opens, singletons and closes, in that order. Opens and closes
// are "|"-joined, consecutive singletons are concatenated, and the three groups
// are "|"-joined, as in "(2|(0)(1)|3)". A token without markers is "-".
func (m Markers) String() string {
	if m.Empty() {
		return "-"
	}

	var opens, singletons, closes []string
	for _, id := range m.Opens {
		opens = append(opens, "("+strconv.Itoa(id))
	}
	for _, id := range m.Singletons {
		singletons = append(singletons, "("+strconv.Itoa(id)+")")
	}
	for _, id := range m.Closes {
		closes = append(closes, strconv.Itoa(id)+")")
	}

	groups := make([]string, 0, 3)
	if len(opens) > 0 {
		groups = append(groups, strings.Join(opens, "|"))
	}
	if len(singletons) > 0 {
		groups = append(groups, strings.Join(singletons, ""))
	}
	if len(closes) > 0 {
		groups = append(groups, strings.Join(closes, "|"))
	}
	return strings.Join(groups, "|")
}

// ParseMarkers parses a marker column. Markers may be "|"-joined or
// concatenated, as in "(0)(1)|2)".
func ParseMarkers(s string) (Markers, error) {
	var m Markers
	if s == "" || s == "-" {
		return m, nil
	}

	for _, part := range strings.Split(s, "|") {
		if err := parseMarkerRun(part, &m); err != nil {
			return Markers{}, fmt.Errorf("marker %q: %w", s, err)
		}
	}
	return m, nil
}

func parseMarkerRun(part string, m *Markers) error {
	if part == "" {
		return errs.ErrMalformedRecord
	}

	i := 0
	for i < len(part) {
		open := part[i] == '('
		if open {
			i++
		}

		start := i
		for i < len(part) && part[i] >= '0' && part[i] <= '9' {
			i++
		}
		if start == i {
			return errs.ErrMalformedRecord
		}
		id, err := strconv.Atoi(part[start:i])
		if err != nil {
			return errs.ErrMalformedRecord
		}

		closed := i < len(part) && part[i] == ')'
		if closed {
			i++
		}

		switch {
		case open && closed:
			m.Singletons = append(m.Singletons, id)
		case open:
			m.Opens = append(m.Opens, id)
		case closed:
			m.Closes = append(m.Closes, id)
		default:
			return errs.ErrMalformedRecord
		}
	}
	return nil
}
