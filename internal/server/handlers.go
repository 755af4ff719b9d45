/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/tschaefer/flowlens/internal/filters"
	"github.com/tschaefer/flowlens/internal/flow"
	"github.com/tschaefer/flowlens/internal/loki"
	"github.com/tschaefer/flowlens/internal/match"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

type flowsRequest struct {
	Filters string `schema:"filters"`
	Limit   int    `schema:"limit"`
}

type lokiFlowsRequest struct {
	Filters string `schema:"filters"`
	Limit   int    `schema:"limit"`
	Start   int64  `schema:"start"`
	End     int64  `schema:"end"`
}

type flowsResponse struct {
	Records []flow.Record `json:"records"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /api/flows", s.handleRecentFlows)
	mux.HandleFunc("GET /api/loki/flows", s.handleLokiFlows)
	mux.Handle("/", http.FileServer(http.Dir(s.cfg.Server.StaticDir)))
	return mux
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRecentFlows serves the captured flows matching the filters param.
func (s *Server) handleRecentFlows(w http.ResponseWriter, r *http.Request) {
	var request flowsRequest
	if err := decoder.Decode(&request, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	group, err := filters.Parse(request.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	var records []flow.Record
	for _, record := range s.store.Recent() {
		if match.Matches(group, record) {
			records = append(records, record)
		}
	}
	if request.Limit > 0 && len(records) > request.Limit {
		records = records[len(records)-request.Limit:]
	}

	writeJSON(w, http.StatusOK, flowsResponse{Records: records})
}

// handleLokiFlows translates the filters param into LogQL, one query per
// OR-branch, and merges the results from Loki.
func (s *Server) handleLokiFlows(w http.ResponseWriter, r *http.Request) {
	var request lokiFlowsRequest
	if err := decoder.Decode(&request, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	group, err := filters.Parse(request.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	builder := &loki.Builder{
		Selector: s.cfg.Loki.Selector,
		Labels:   s.cfg.Loki.Labels,
	}
	queries, err := builder.BuildQueries(group)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	end := time.Now()
	if request.End > 0 {
		end = time.Unix(request.End, 0)
	}
	start := end.Add(-time.Hour)
	if request.Start > 0 {
		start = time.Unix(request.Start, 0)
	}

	records, err := s.client.QueryFlows(r.Context(), queries, start, end, request.Limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, flowsResponse{Records: records})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Debug("Request failed.", "status", status, "error", err)
	writeJSON(w, status, errorResponse{Message: err.Error()})
}
