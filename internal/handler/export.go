package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "trip_name", "trip_start", "trip_end", "trip_completed",
	"day", "position", "activity_name", "activity_city", "is_custom",
}

// ExportRow is the JSON shape of one export row. Position is omitted for
// days without activities.
type ExportRow struct {
	TripID        string `json:"trip_id"`
	TripName      string `json:"trip_name"`
	TripStart     string `json:"trip_start"`
	TripEnd       string `json:"trip_end"`
	TripCompleted bool   `json:"trip_completed"`
	Day           string `json:"day"`
	Position      *int   `json:"position,omitempty"`
	ActivityName  string `json:"activity_name,omitempty"`
	ActivityCity  string `json:"activity_city,omitempty"`
	Custom        bool   `json:"is_custom,omitempty"`
}

// GetExport handles GET /export.
// It returns one row per planned activity across all trips.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "format must be one of: json, csv")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.fail(w, r, err, "export not found")
		return
	}

	if format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, toExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		_ = cw.Write(toCSVRecord(r))
	}
	cw.Flush()
}

func toExportRow(r domain.ExportRow) ExportRow {
	row := ExportRow{
		TripID:        r.TripID,
		TripName:      r.TripName,
		TripStart:     r.TripStart,
		TripEnd:       r.TripEnd,
		TripCompleted: r.TripCompleted,
		Day:           r.DayDate,
		ActivityName:  r.ActivityName,
		ActivityCity:  r.ActivityCity,
		Custom:        r.Custom,
	}
	if r.Position >= 0 {
		pos := r.Position
		row.Position = &pos
	}
	return row
}

// toCSVRecord flattens a row; the position column is empty for empty days.
func toCSVRecord(r domain.ExportRow) []string {
	position := ""
	if r.Position >= 0 {
		position = strconv.Itoa(r.Position)
	}
	return []string{
		r.TripID,
		r.TripName,
		r.TripStart,
		r.TripEnd,
		strconv.FormatBool(r.TripCompleted),
		r.DayDate,
		position,
		r.ActivityName,
		r.ActivityCity,
		strconv.FormatBool(r.Custom),
	}
}
