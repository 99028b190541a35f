// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reportapi serves stored evaluation results over HTTP.
//
// The API is read-mostly and unauthenticated; it is meant for local use and
// CI dashboards, not the public internet.
package reportapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"google.golang.org/modeleval"
	"google.golang.org/modeleval/storage"
)

// Controller handles report API requests against a result store.
type Controller struct {
	store storage.Storage
}

// NewController creates a controller over the store.
func NewController(store storage.Storage) *Controller {
	return &Controller{store: store}
}

// NewRouter builds the report API router:
//
//	GET    /api/results         list stored runs
//	GET    /api/results/{id}    fetch one run
//	DELETE /api/results/{id}    delete one run
//	GET    /healthz             liveness probe
func NewRouter(store storage.Storage) *mux.Router {
	c := NewController(store)

	router := mux.NewRouter().StrictSlash(true)
	router.Methods(http.MethodGet).Path("/api/results").HandlerFunc(c.ListResults)
	router.Methods(http.MethodGet).Path("/api/results/{id}").HandlerFunc(c.GetResult)
	router.Methods(http.MethodDelete).Path("/api/results/{id}").HandlerFunc(c.DeleteResult)
	router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(c.Health)
	return router
}

// ListResults handles GET /api/results.
func (c *Controller) ListResults(rw http.ResponseWriter, req *http.Request) {
	results, err := c.store.List(req.Context())
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, results)
}

// GetResult handles GET /api/results/{id}.
func (c *Controller) GetResult(rw http.ResponseWriter, req *http.Request) {
	runID := mux.Vars(req)["id"]
	result, err := c.store.Get(req.Context(), runID)
	if err != nil {
		writeError(rw, err)
		return
	}
	writeJSON(rw, http.StatusOK, result)
}

// DeleteResult handles DELETE /api/results/{id}.
func (c *Controller) DeleteResult(rw http.ResponseWriter, req *http.Request) {
	runID := mux.Vars(req)["id"]
	if err := c.store.Delete(req.Context(), runID); err != nil {
		writeError(rw, err)
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (c *Controller) Health(rw http.ResponseWriter, req *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(rw http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, modeleval.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, modeleval.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Msg("report api request failed")
	}
	writeJSON(rw, status, errorResponse{Error: err.Error()})
}

func writeJSON(rw http.ResponseWriter, status int, body any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
