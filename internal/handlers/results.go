package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/models"
)

type ResultHandler struct {
	service *app.Service
}

func NewResultHandler(service *app.Service) *ResultHandler {
	return &ResultHandler{service: service}
}

func (h *ResultHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			"201",
		).Observe(time.Since(start).Seconds())
	}()
	if !gate(h.service, w, r) {
		return
	}

	var result models.Result
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Results.Create(result)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ResultHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	published := strings.ToLower(r.URL.Query().Get("published"))
	uid := strings.TrimSpace(r.URL.Query().Get("uid"))

	results, err := h.service.Results.List(published, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *ResultHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	result, err := h.service.Results.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleUpdate merges raw fields into the result document; nothing is
// renormalized here.
func (h *ResultHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.Results.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ResultHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Results.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Result deleted"})
}

func (h *ResultHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	result, err := h.service.Results.Publish(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ResultHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var body struct {
		ID  string `json:"id"`
		Pin string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.ID == "" {
		http.Error(w, "Result id required", http.StatusBadRequest)
		return
	}

	if err := h.service.Guard.Allow(r.Context(), body.ID, body.Pin); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Results.Check(body.ID, body.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
