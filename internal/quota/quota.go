// Package quota implements the daily proposal-generation cap. The guard
// is a pure decision on a count the caller has already scoped to the
// current calendar day (midnight boundary in the local timezone); the
// record store owns the counting.
package quota

// warnFraction is the share of the cap at which Status reports a warning.
const warnFraction = 0.8

// CanGenerate reports whether another generation call may be issued given
// today's count and the configured cap. A cap of zero or less disables
// generation entirely.
func CanGenerate(todayCount, cap int) bool {
	return todayCount < cap
}

// Remaining returns how many generation calls are left today, never
// negative.
func Remaining(todayCount, cap int) int {
	if r := cap - todayCount; r > 0 {
		return r
	}
	return 0
}

// Status is a point-in-time snapshot of quota consumption, surfaced in
// logs and the notification digest.
type Status struct {
	Used      int
	Limit     int
	Remaining int
	Warning   bool
	Exceeded  bool
}

// Check builds a Status for today's count against the cap. Warning trips
// at 80% of the cap.
func Check(todayCount, cap int) Status {
	return Status{
		Used:      todayCount,
		Limit:     cap,
		Remaining: Remaining(todayCount, cap),
		Warning:   cap > 0 && float64(todayCount) >= float64(cap)*warnFraction,
		Exceeded:  todayCount >= cap,
	}
}
