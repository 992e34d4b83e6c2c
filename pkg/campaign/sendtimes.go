package campaign

import "time"

// SendTimes spreads total timestamps evenly across [start, end].
// The first timestamp is start and, for total > 1, the last one is end.
// It returns nil for total < 1.
func SendTimes(start, end time.Time, total int) []time.Time {
	if total < 1 {
		return nil
	}
	if total == 1 {
		return []time.Time{start}
	}

	spacing := end.Sub(start) / time.Duration(total-1)
	times := make([]time.Time, total)
	for i := range total {
		times[i] = start.Add(time.Duration(i) * spacing)
	}
	// Pin the tail: nanosecond truncation of spacing must not pull it off the boundary.
	times[total-1] = end
	return times
}
