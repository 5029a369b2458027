// Package duration converts ISO-8601 time durations into human-readable text.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	hoursExpr   = regexp.MustCompile(`(\d+)H`)
	minutesExpr = regexp.MustCompile(`(\d+)M`)
)

// Human renders an ISO-8601 time duration such as "PT1H30M" as "1 hour
// 30 minutes". Input without the PT prefix is returned unchanged; a duration
// with neither hours nor minutes yields "". Malformed fragments are ignored.
func Human(iso string) string {
	if !strings.HasPrefix(iso, "PT") {
		return iso
	}
	rest := strings.TrimPrefix(iso, "PT")

	hours := extract(hoursExpr, rest)
	minutes := extract(minutesExpr, rest)

	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}
	return strings.Join(parts, " ")
}

func extract(expr *regexp.Regexp, s string) int {
	m := expr.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
