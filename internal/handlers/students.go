package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/metrics"
	"github.com/yms-edu/registrar/internal/school"
)

type StudentHandler struct {
	service *app.Service
}

func NewStudentHandler(service *app.Service) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	var input school.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	student, err := h.service.Students.Create(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    student,
	})
}

func (h *StudentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	students, err := h.service.Students.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    students,
	})
}

func (h *StudentHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	student, err := h.service.Students.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    student,
	})
}

func (h *StudentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	student, err := h.service.Students.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    student,
	})
}

func (h *StudentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Students.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
