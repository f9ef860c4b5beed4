package domain

// ExportRow is a single row in the itinerary export.
// It is a flat, denormalized view: one row per planned activity, with trip
// and day fields repeated on every row. Days with no activities yield one row
// with empty activity fields so the full date range stays visible.
type ExportRow struct {
	// Trip fields, repeated for every row of the trip.
	TripID        string
	TripName      string
	TripStart     string
	TripEnd       string
	TripCompleted bool

	// Day fields.
	DayDate string

	// Activity fields; Position is -1 when the day is empty.
	Position     int
	ActivityName string
	ActivityCity string
	Custom       bool
}
