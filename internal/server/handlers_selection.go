package server

import (
	"net/http"
)

func (s *Server) selectionBody() map[string]any {
	ids := s.store.Selected()
	return map[string]any{
		"selected": ids,
		"count":    len(ids),
	}
}

// handleGetSelection lists selected ids in display order
func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.selectionBody())
}

// handleSelect adds one entry to the selection
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.Get(id); err != nil {
		s.fail(w, err, nil)
		return
	}
	s.store.Select(id, true)
	s.jsonResponse(w, http.StatusOK, s.selectionBody())
}

// handleDeselect removes one entry from the selection
func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	s.store.Select(r.PathValue("id"), false)
	s.jsonResponse(w, http.StatusOK, s.selectionBody())
}

// handleSelectAll selects every entry
func (s *Server) handleSelectAll(w http.ResponseWriter, _ *http.Request) {
	s.store.SelectAll(true)
	s.jsonResponse(w, http.StatusOK, s.selectionBody())
}

// handleClearSelection empties the selection
func (s *Server) handleClearSelection(w http.ResponseWriter, _ *http.Request) {
	s.store.SelectAll(false)
	s.jsonResponse(w, http.StatusOK, s.selectionBody())
}

// handleDeleteSelected bulk-deletes the selection with a single write
func (s *Server) handleDeleteSelected(w http.ResponseWriter, r *http.Request) {
	removed, err := s.store.DeleteSelected(r.Context())
	if err != nil {
		body := errorBody(err, nil)
		body["deleted"] = removed
		s.jsonResponse(w, HTTPStatus(err), body)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"deleted":   removed,
		"remaining": s.store.Len(),
	})
}
