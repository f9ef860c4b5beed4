package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

type mapLinkResponse struct {
	URL string `json:"url"`
}

// GetMapLink handles GET /maps?lat=&lng= and returns the external map link
// for a coordinate pair.
func (s *Server) GetMapLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "lat and lng must be numbers")
		return
	}
	c := domain.Coordinates{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		s.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, mapLinkResponse{URL: c.MapURL()})
}
