package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/models"
)

type SubjectHandler struct {
	service *app.Service
}

func NewSubjectHandler(service *app.Service) *SubjectHandler {
	return &SubjectHandler{service: service}
}

func (h *SubjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var subject models.Subject
	if err := json.NewDecoder(r.Body).Decode(&subject); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Subjects.Create(subject)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SubjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	subjects, err := h.service.Subjects.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": subjects})
}

func (h *SubjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	subject, err := h.service.Subjects.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (h *SubjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	subject, err := h.service.Subjects.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

func (h *SubjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Subjects.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subject deleted"})
}
