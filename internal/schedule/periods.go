package schedule

import "strings"

// Period is a named bucket of the day used by venue search.
type Period string

const (
	PeriodMorning   Period = "manha"
	PeriodAfternoon Period = "tarde"
	PeriodNight     Period = "noite"
	PeriodDawn      Period = "madrugada"
)

type periodRange struct {
	from int
	to   int
}

var periodRanges = map[Period]periodRange{
	PeriodMorning:   {from: 6 * 60, to: 12 * 60},
	PeriodAfternoon: {from: 12 * 60, to: 18 * 60},
	PeriodNight:     {from: 18 * 60, to: 24 * 60},
	PeriodDawn:      {from: 0, to: 6 * 60},
}

// ParsePeriods splits a comma separated query value into labels.
func ParsePeriods(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(csv, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FilterByPeriod keeps the slots whose start falls in any of the given
// periods. Unknown labels are ignored; when no known label is left the
// input is returned unchanged.
func FilterByPeriod(slots []string, periods []string) []string {
	var ranges []periodRange
	for _, p := range periods {
		if r, ok := periodRanges[Period(p)]; ok {
			ranges = append(ranges, r)
		}
	}
	if len(ranges) == 0 {
		return slots
	}

	out := []string{}
	for _, slot := range slots {
		m, err := TimeToMinutes(slot)
		if err != nil {
			continue
		}
		for _, r := range ranges {
			if m >= r.from && m < r.to {
				out = append(out, slot)
				break
			}
		}
	}
	return out
}
