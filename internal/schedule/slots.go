package schedule

// BuildHourlySlots returns the start of every full hour that fits in
// [start, end). A trailing remainder shorter than an hour is dropped.
func BuildHourlySlots(start, end string) ([]string, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return nil, err
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return nil, err
	}
	return BuildHourlySlotsMinutes(s, e), nil
}

// BuildHourlySlotsMinutes is BuildHourlySlots over minute offsets.
func BuildHourlySlotsMinutes(start, end int) []string {
	slots := []string{}
	for t := start; t+SlotMinutes <= end; t += SlotMinutes {
		slots = append(slots, MinutesToTime(t))
	}
	return slots
}

// FitsWindow reports whether a slot starting at start lies inside [open, close).
func FitsWindow(start, open, close int) bool {
	return start >= open && start+SlotMinutes <= close
}
