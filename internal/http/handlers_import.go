package http

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/RDubya18/sprig-mobile/assets"
)

type importRequest struct {
	CSV    string `json:"csv"`
	Sample bool   `json:"sample"`
}

// handleImport runs a CSV import. The body is either a JSON envelope
// ({"csv": "...", "sample": false}) or the raw CSV itself with a text/csv
// content type. An empty body behaves like a canceled file pick: a zero
// summary, not an error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := decodeJSON(r, &req); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	} else {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			errorJSON(w, http.StatusBadRequest, "read body failed")
			return
		}
		req.CSV = string(body)
	}

	if req.Sample {
		req.CSV = assets.SampleCSV
	}

	summary, err := s.deps.Importer.Import(r.Context(), req.CSV, req.Sample)
	if err != nil {
		slog.ErrorContext(r.Context(), "Import failed", "error", err)
		errorJSON(w, http.StatusInternalServerError, "import failed")
		return
	}

	if summary.Inserted > 0 {
		s.purgeReportCaches()
	}

	writeJSON(w, http.StatusOK, summary)
}
