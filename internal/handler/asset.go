package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/pocket-guide/backend/internal/assets"
	"github.com/pkordes/pocket-guide/backend/internal/middleware"
	"github.com/pkordes/pocket-guide/backend/internal/service"
)

// ResolveAsset handles GET /assets/{kind}?place=&name=&probe=.
// kind is image, audio or thumb. Without probe=true only the ordered
// candidate list is returned. A miss is a 200 with available=false.
// Probing requests that carry the X-Session-ID header supersede the
// previous probing request of the same session and kind; the superseded
// one answers 409.
func (s *Server) ResolveAsset(w http.ResponseWriter, r *http.Request) {
	kind, err := assets.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, codeValidation, "kind must be one of: image, audio, thumb")
		return
	}
	q := r.URL.Query()
	probe := false
	if raw := q.Get("probe"); raw != "" {
		if probe, err = strconv.ParseBool(raw); err != nil {
			writeError(w, http.StatusUnprocessableEntity, codeValidation, "probe must be a boolean")
			return
		}
	}

	res, err := s.assets.Resolve(r.Context(), service.AssetRequest{
		Kind:    kind,
		Place:   q.Get("place"),
		Name:    q.Get("name"),
		Probe:   probe,
		Session: r.Header.Get(middleware.SessionHeader),
	})
	if err != nil {
		s.fail(w, r, err, "asset not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
