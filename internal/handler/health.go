package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(s.openAPI) //nolint:errcheck
}

// GetSchema handles GET /schemas.
// With ?sale_date= it returns the schema a trip sold that day falls under;
// without it, the whole schedule oldest first.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	var saleDate *openapi_types.Date
	if err := queryOptional(r, "sale_date", &saleDate); err != nil {
		badRequest(w, err.Error())
		return
	}

	if saleDate != nil {
		writeJSON(w, http.StatusOK, schemaToResponse(s.schedule.Resolve(saleDate.Time)))
		return
	}
	out := make([]schemaResponse, len(s.schedule))
	for i, schema := range s.schedule {
		out[i] = schemaToResponse(schema)
	}
	writeJSON(w, http.StatusOK, out)
}
