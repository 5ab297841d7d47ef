package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/jonathan/resutrack/internal/types"
)

// handleListEntries lists all entries, newest first
func (s *Server) handleListEntries(w http.ResponseWriter, _ *http.Request) {
	entries := s.store.Entries()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleGetEntry retrieves a single entry
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err, nil)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

// handleCreateEntry validates and stores a new entry
func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeForm(w, r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	entry, err := s.store.Create(r.Context(), in)
	if err != nil {
		// A failed write still leaves the entry in the collection.
		if entry.ID != "" {
			s.fail(w, err, entry)
			return
		}
		s.fail(w, err, nil)
		return
	}
	s.jsonResponse(w, http.StatusCreated, entry)
}

// handleUpdateEntry replaces an entry's fields, keeping its id
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	in, err := s.decodeForm(w, r)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	entry, err := s.store.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		if entry.ID != "" {
			s.fail(w, err, entry)
			return
		}
		s.fail(w, err, nil)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

// handleDeleteEntry removes an entry. Unknown ids succeed.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleClassifyEntry runs the link classifier for one entry
func (s *Server) handleClassifyEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.store.Classify(r.Context(), r.PathValue("id"))
	if err != nil {
		if entry.ID != "" {
			s.fail(w, err, entry)
			return
		}
		s.fail(w, err, nil)
		return
	}
	s.jsonResponse(w, http.StatusOK, entry)
}

// handleClassifyAll classifies every pending entry; ?force=true re-runs judged ones
func (s *Server) handleClassifyAll(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("force") == "true"

	summary, err := s.store.ClassifyAll(r.Context(), force)
	if err != nil {
		s.fail(w, err, nil)
		return
	}

	failures := make(map[string]string, len(summary.Errors))
	for id, e := range summary.Errors {
		failures[id] = e.Error()
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"valid":   summary.Valid,
		"invalid": summary.Invalid,
		"failed":  summary.Failed,
		"skipped": summary.Skipped,
		"errors":  failures,
	})
}

// decodeForm reads a FormInput from a JSON body or a multipart form with
// an optional "image" file part.
func (s *Server) decodeForm(w http.ResponseWriter, r *http.Request) (types.FormInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return s.decodeMultipart(r)
	}

	var in types.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, err
		}
		return in, &ErrBadRequest{Message: "invalid JSON body", Cause: err}
	}
	return in, nil
}

func (s *Server) decodeMultipart(r *http.Request) (types.FormInput, error) {
	var in types.FormInput
	if err := r.ParseMultipartForm(s.maxBody); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return in, err
		}
		return in, &ErrBadRequest{Message: "invalid multipart body", Cause: err}
	}

	in.CompanyName = r.FormValue("companyName")
	in.ResumeLink = r.FormValue("resumeLink")
	in.RegistrationDate = r.FormValue("registrationDate")
	in.Stipend = types.LooseNumber(r.FormValue("stipend"))
	in.ExamDate = r.FormValue("examDate")
	in.InterviewDate = r.FormValue("interviewDate")
	in.Note = r.FormValue("note")
	in.Image = strings.TrimSpace(r.FormValue("image"))

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, &ErrBadRequest{Message: "unreadable image part", Cause: err}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return in, &ErrBadRequest{Message: "unreadable image part", Cause: err}
	}
	in.Upload = &types.ImageUpload{Filename: header.Filename, Data: data}
	return in, nil
}
