package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/TuftsBCB/pdbmissing/internal/report"
	"github.com/TuftsBCB/pdbmissing/pdb"
	"github.com/TuftsBCB/pdbmissing/source"
	"github.com/go-chi/chi/v5"
)

// handleStructure fetches a structure by accession code and returns its
// ledger.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	mers, err := merParam(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.FetchTimeout)
	defer cancel()
	lines, err := s.src.Lines(ctx, id)
	if err != nil {
		s.log.Warn("fetch failed", "structure", id, "error", err)
		writeError(w, &pdb.Error{ID: id, Stage: pdb.StageFetch, Err: err})
		return
	}
	s.respond(w, id, lines, mers)
}

// handleReconcile reconciles an uploaded PDB file (plain or gzipped).
func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		jsonError(w, "id query parameter is required", http.StatusBadRequest)
		return
	}
	mers, err := merParam(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)",
			s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}
	lines, err := source.DecodeLimit(data, s.cfg.MaxDecodedBytes)
	if errors.Is(err, source.ErrTooLarge) {
		jsonError(w, fmt.Sprintf("file decompresses to more than %d bytes",
			s.cfg.MaxDecodedBytes), http.StatusRequestEntityTooLarge)
		return
	}
	if err != nil {
		jsonError(w, "cannot read PDB file: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.respond(w, id, lines, mers)
}

func (s *Server) respond(w http.ResponseWriter, id string, lines []string, mers int) {
	rep, err := report.Build(id, lines, report.Options{
		Mers:           mers,
		Representative: s.cfg.Representative,
		Log:            s.log,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rep)
}

// merParam reads the optional mer count. Absent means no partitioning.
func merParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("mer")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("mer must be a positive integer, not '%s'", v)
	}
	return n, nil
}

// writeError maps the errors of fetching and parsing a structure to a
// status code.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, source.ErrSourceUnavailable):
		code = http.StatusBadGateway
	case errors.Is(err, pdb.ErrMalformedHeader):
		code = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]string{"error": err.Error()}
	var perr *pdb.Error
	if errors.As(err, &perr) {
		body["id"] = perr.ID
		body["stage"] = string(perr.Stage)
		body["error"] = perr.Err.Error()
	}
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
