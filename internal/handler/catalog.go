package handler

import (
	"net/http"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
)

// GetCatalog handles GET /catalog. It returns the whole content document, or
// 503 while no document has been loaded.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.Current()
	if err != nil {
		s.fail(w, r, err, "catalog not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ReloadCatalog handles POST /catalog/reload, the retry affordance after a
// failed load. A failed reload keeps serving the previous document.
func (s *Server) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reload(r.Context()); err != nil {
		s.fail(w, r, err, "catalog not found")
		return
	}
	c, err := s.catalog.Current()
	if err != nil {
		s.fail(w, r, err, "catalog not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"countries":  len(c.Countries),
		"places":     len(c.PlaceNames()),
		"activities": len(c.Entries()),
	})
}

type activityListResponse struct {
	Data []domain.CatalogEntry `json:"data"`
}

// SearchActivities handles GET /catalog/activities?q=. Matching is a case
// insensitive substring match on the activity name; results are unique per
// name and city.
func (s *Server) SearchActivities(w http.ResponseWriter, r *http.Request) {
	c, err := s.catalog.Current()
	if err != nil {
		s.fail(w, r, err, "catalog not found")
		return
	}
	writeJSON(w, http.StatusOK, activityListResponse{Data: c.Search(r.URL.Query().Get("q"))})
}
