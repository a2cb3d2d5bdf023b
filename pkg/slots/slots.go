package slots

import "time"

const layout = "15:04"

// Compute derives the full theoretical slot set for a provider's visiting
// window: the window is divided into maxCapacity equal blocks (floored,
// minimum one minute) and up to maxCapacity start times are emitted. The
// walk stops early once the next start would pass the end of the window, so
// a window that does not divide evenly yields fewer, never overflowing,
// slots. The result is identical for every calendar date; only the ledger
// decides which of these are taken on a given day.
func Compute(startOfDay, endOfDay string, maxCapacity int) []string {
	start, err := time.Parse(layout, startOfDay)
	if err != nil {
		return nil
	}
	end, err := time.Parse(layout, endOfDay)
	if err != nil {
		return nil
	}

	totalMinutes := int(end.Sub(start).Minutes())
	if maxCapacity <= 0 || totalMinutes <= 0 {
		return nil
	}

	slotLen := totalMinutes / maxCapacity
	if slotLen < 1 {
		slotLen = 1
	}

	out := make([]string, 0, maxCapacity)
	t := start
	for i := 0; i < maxCapacity; i++ {
		out = append(out, t.Format(layout))
		t = t.Add(time.Duration(slotLen) * time.Minute)
		if t.After(end) {
			break
		}
	}
	return out
}

// Contains reports whether t is a member of the slot set.
func Contains(set []string, t string) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}
