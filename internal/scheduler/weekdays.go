package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule entries are authored against Sunday=0 weekday numbering, so the
// wall clock's weekday must be read in that convention. Go's time.Weekday
// already counts Sunday as 0; the cast pins the contract.
func weekdayNumber(t time.Time) int {
	return int(t.Weekday())
}

// ParseWeekdays parses a comma-separated weekday set such as "0,1,2,3,4,5,6".
// Every element must be a single number between 0 (Sunday) and 6 (Saturday);
// anything else is rejected rather than coerced. Duplicates are harmless.
func ParseWeekdays(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("weekdays must be comma-separated numbers 0-6, got %q", p)
		}
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("weekday %d out of range 0-6", d)
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("weekdays must not be empty")
	}
	return days, nil
}

func containsWeekday(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}
