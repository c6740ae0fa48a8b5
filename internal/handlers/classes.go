package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/models"
)

type ClassHandler struct {
	service *app.Service
}

func NewClassHandler(service *app.Service) *ClassHandler {
	return &ClassHandler{service: service}
}

func (h *ClassHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var class models.Class
	if err := json.NewDecoder(r.Body).Decode(&class); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Classes.Create(class)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ClassHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	classes, err := h.service.Classes.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (h *ClassHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	class, err := h.service.Classes.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	class, err := h.service.Classes.Update(r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, class)
}

func (h *ClassHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Classes.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Class deleted"})
}
