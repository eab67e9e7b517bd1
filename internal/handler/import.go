package handler

import (
	"errors"
	"net/http"

	"github.com/edu-maass/comissions-dashboard/internal/middleware"
)

// PostImport handles POST /imports.
// The body is a sales ledger CSV export. Rows that fail are reported with
// their line number; the rest are recorded. Admin only.
func (s *Server) PostImport(w http.ResponseWriter, r *http.Request) {
	if !middleware.ActorFromContext(r.Context()).IsAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "only administrators may import sales")
		return
	}

	res, err := s.Imports.Import(r.Context(), r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}

	out := importResponse{Imported: res.Imported, Skipped: res.Skipped, Errors: make([]importRowError, len(res.Errors))}
	for i, e := range res.Errors {
		out.Errors[i] = importRowError{Line: e.Line, Message: e.Err.Error()}
	}
	writeJSON(w, http.StatusOK, out)
}
