package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yms-edu/registrar/internal/app"
	"github.com/yms-edu/registrar/internal/models"
)

type AdminHandler struct {
	service *app.Service
}

func NewAdminHandler(service *app.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var admin models.Admin
	if err := json.NewDecoder(r.Body).Decode(&admin); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Admins.Create(admin)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Admin created successfully",
		"admin":   created,
	})
}

func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	admins, err := h.service.Admins.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admins)
}

func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	admin, err := h.service.Admins.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, admin)
}

func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Admins.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted"})
}
