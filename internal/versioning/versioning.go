// Package versioning computes version labels for new commits and provides
// the comparator used to order labels for display and analytics.
//
// Two label formats exist: semantic ("major.minor.patch") and date-based
// ("YYYY-MM-DD" with an optional ".N" sequence suffix). Parse failures are
// never errors: an unparseable prior label means "start of history" and
// resolves to a safe default.
package versioning

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/designlog/internal/commit"
)

// Increment selects which semantic component a new commit bumps.
type Increment string

// Semantic increment kinds.
const (
	IncrementMajor Increment = "major"
	IncrementMinor Increment = "minor"
	IncrementPatch Increment = "patch"
)

// initialSemantic is the label assigned when no parseable prior exists.
const initialSemantic = "1.0.0"

// dateLayout is the calendar-day portion of a date-based label.
const dateLayout = "2006-01-02"

const semanticParts = 3

// Semantic is a parsed "major.minor.patch" label.
type Semantic struct {
	Major int
	Minor int
	Patch int
}

// String renders the label in "major.minor.patch" form.
func (s Semantic) String() string {
	return fmt.Sprintf("%d.%d.%d", s.Major, s.Minor, s.Patch)
}

// ParseSemantic parses a "major.minor.patch" label with non-negative integer
// components. Any other shape reports no match.
func ParseSemantic(label string) (Semantic, bool) {
	parts := strings.Split(label, ".")
	if len(parts) != semanticParts {
		return Semantic{}, false
	}

	nums := make([]int, semanticParts)

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || part != strconv.Itoa(n) {
			return Semantic{}, false
		}

		nums[i] = n
	}

	return Semantic{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true
}

// NextSemantic computes the semantic label following prior. When prior is
// absent or fails to parse, the result is always "1.0.0" regardless of the
// increment kind.
func NextSemantic(prior string, inc Increment) string {
	sem, ok := ParseSemantic(prior)
	if !ok {
		return initialSemantic
	}

	switch inc {
	case IncrementMajor:
		return Semantic{Major: sem.Major + 1}.String()
	case IncrementMinor:
		return Semantic{Major: sem.Major, Minor: sem.Minor + 1}.String()
	case IncrementPatch:
		return Semantic{Major: sem.Major, Minor: sem.Minor, Patch: sem.Patch + 1}.String()
	default:
		return Semantic{Major: sem.Major, Minor: sem.Minor, Patch: sem.Patch + 1}.String()
	}
}

// dateLabel is a parsed "YYYY-MM-DD" or "YYYY-MM-DD.N" label.
type dateLabel struct {
	day time.Time
	seq int
}

func parseDate(label string) (dateLabel, bool) {
	dayPart := label
	seq := 0

	if idx := strings.Index(label, "."); idx >= 0 {
		dayPart = label[:idx]

		n, err := strconv.Atoi(label[idx+1:])
		if err != nil || n < 1 {
			return dateLabel{}, false
		}

		seq = n
	}

	day, err := time.Parse(dateLayout, dayPart)
	if err != nil {
		return dateLabel{}, false
	}

	return dateLabel{day: day, seq: seq}, true
}

// NextDate computes the date-based label following prior, relative to now.
// A missing, unparseable, or different-day prior yields today's date with no
// suffix; a same-day prior increments the sequence suffix (absent counts
// as 0).
func NextDate(prior string, now time.Time) string {
	today := now.Format(dateLayout)

	parsed, ok := parseDate(prior)
	if !ok || parsed.day.Format(dateLayout) != today {
		return today
	}

	return fmt.Sprintf("%s.%d", today, parsed.seq+1)
}

// Next computes the label following prior for the given mode. Semantic mode
// uses inc; date-based mode uses now.
func Next(prior string, mode commit.Mode, inc Increment, now time.Time) string {
	if mode == commit.ModeDateBased {
		return NextDate(prior, now)
	}

	return NextSemantic(prior, inc)
}

// Compare orders two version labels: semantic labels component-wise, date
// labels by calendar day then sequence number. Mixed-format comparisons fall
// back to plain string comparison, which is documented as lossy for sorting
// heterogeneous histories. Returns -1, 0, or 1.
func Compare(a, b string) int {
	semA, okA := ParseSemantic(a)
	semB, okB := ParseSemantic(b)

	if okA && okB {
		return compareSemantic(semA, semB)
	}

	dateA, okA := parseDate(a)
	dateB, okB := parseDate(b)

	if okA && okB {
		if !dateA.day.Equal(dateB.day) {
			if dateA.day.Before(dateB.day) {
				return -1
			}

			return 1
		}

		return compareInt(dateA.seq, dateB.seq)
	}

	return strings.Compare(a, b)
}

func compareSemantic(a, b Semantic) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}

	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}

	return compareInt(a.Patch, b.Patch)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
