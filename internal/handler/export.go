package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/edu-maass/comissions-dashboard/internal/document"
	"github.com/edu-maass/comissions-dashboard/internal/middleware"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// GetExport handles GET /export.
// It returns one row per trip sold or travelled in the period.
// Use ?format=xlsx for a workbook; the default is CSV.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := queryOptional(r, "format", &format); err != nil {
		badRequest(w, err.Error())
		return
	}
	ext := "csv"
	if format != nil && *format != "" {
		ext = strings.ToLower(*format)
	}
	if ext != "csv" && ext != "xlsx" {
		badRequest(w, fmt.Sprintf("unknown format %q: want csv or xlsx", ext))
		return
	}
	p, scope, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	rows, err := s.Exports.Rows(r.Context(), p, scope)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// Render fully before writing so a failure can still produce a 500.
	var buf bytes.Buffer
	contentType := contentTypeCSV
	if ext == "xlsx" {
		contentType = contentTypeXLSX
		err = document.WriteXLSX(&buf, rows)
	} else {
		err = document.WriteCSV(&buf, rows)
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeDownload(w, contentType, document.Filename("comisiones", p, ext), buf.Bytes())
}

// GetStatement handles GET /statements.
// It renders one specialist's PDF statement; specialist defaults to the
// session's own name.
func (s *Server) GetStatement(w http.ResponseWriter, r *http.Request) {
	var specialist *string
	if err := queryOptional(r, "specialist", &specialist); err != nil {
		badRequest(w, err.Error())
		return
	}
	p, err := s.periodParams(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	actor := middleware.ActorFromContext(r.Context())
	name := actor.Name
	if specialist != nil && strings.TrimSpace(*specialist) != "" {
		name = *specialist
	}

	st, err := s.Exports.Statement(r.Context(), name, p, actor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := document.WriteStatementPDF(&buf, st); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeDownload(w, contentTypePDF, document.Filename("estado_"+slug(st.Specialist), p, "pdf"), buf.Bytes())
}

func writeDownload(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body) //nolint:errcheck
}

// slug keeps ASCII letters and digits of s, joining words with underscores.
func slug(s string) string {
	var b strings.Builder
	underscore := false
	for _, r := range fold(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

var accentFold = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n")

func fold(s string) string {
	return accentFold.Replace(strings.ToLower(s))
}
