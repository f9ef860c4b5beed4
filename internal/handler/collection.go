package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/pocket-guide/backend/internal/domain"
	"github.com/pkordes/pocket-guide/backend/internal/service"
)

type toggleRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type membershipResponse struct {
	Kind   service.CollectionKind `json:"kind"`
	Name   string                 `json:"name"`
	Member bool                   `json:"member"`
}

type collectionResponse struct {
	Kind  service.CollectionKind `json:"kind"`
	Names []string               `json:"names"`
}

type collectionActivitiesResponse struct {
	Kind service.CollectionKind `json:"kind"`
	Data []domain.CatalogEntry  `json:"data"`
}

func collectionKind(w http.ResponseWriter, r *http.Request) (service.CollectionKind, bool) {
	kind, err := service.ParseCollectionKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, unwrapMessage(err, domain.ErrValidation))
		return "", false
	}
	return kind, true
}

// GetCollection handles GET /collections/{kind}. With ?name= it answers
// whether that one activity is a member instead of listing the set.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	kind, ok := collectionKind(w, r)
	if !ok {
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		member, err := s.collections.Contains(r.Context(), kind, name)
		if err != nil {
			s.fail(w, r, err, "collection not found")
			return
		}
		writeJSON(w, http.StatusOK, membershipResponse{Kind: kind, Name: name, Member: member})
		return
	}
	names, err := s.collections.List(r.Context(), kind)
	if err != nil {
		s.fail(w, r, err, "collection not found")
		return
	}
	writeJSON(w, http.StatusOK, collectionResponse{Kind: kind, Names: names})
}

// GetCollectionActivities handles GET /collections/{kind}/activities: the
// set resolved to catalog activities, as shown by the virtual city.
func (s *Server) GetCollectionActivities(w http.ResponseWriter, r *http.Request) {
	kind, ok := collectionKind(w, r)
	if !ok {
		return
	}
	entries, err := s.collections.Activities(r.Context(), kind)
	if err != nil {
		s.fail(w, r, err, "collection not found")
		return
	}
	writeJSON(w, http.StatusOK, collectionActivitiesResponse{Kind: kind, Data: entries})
}

// ToggleCollection handles POST /collections/{kind}/toggle.
func (s *Server) ToggleCollection(w http.ResponseWriter, r *http.Request) {
	kind, ok := collectionKind(w, r)
	if !ok {
		return
	}
	var req toggleRequest
	if !decode(w, r, &req) {
		return
	}
	member, err := s.collections.Toggle(r.Context(), kind, req.Name)
	if err != nil {
		s.fail(w, r, err, "collection not found")
		return
	}
	writeJSON(w, http.StatusOK, membershipResponse{Kind: kind, Name: req.Name, Member: member})
}
