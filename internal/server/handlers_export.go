package server

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/jonathan/resutrack/internal/export"
)

// handleExport streams the entries as an .xlsx workbook
func (s *Server) handleExport(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s.store.Entries()); err != nil {
		s.logger.Error().Err(err).Msg("export failed")
		s.errorResponse(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DefaultFilename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn().Err(err).Msg("export write interrupted")
	}
}
