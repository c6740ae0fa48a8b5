package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/yms-edu/registrar/internal/app"
)

type CardHandler struct {
	service *app.Service
}

func NewCardHandler(service *app.Service) *CardHandler {
	return &CardHandler{service: service}
}

func (h *CardHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cards, err := h.service.Cards.Generate(body.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cards)
}

func (h *CardHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	cards, err := h.service.Cards.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *CardHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}
	if err := h.service.Cards.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Card deleted successfully"})
}

func (h *CardHandler) HandleMarkUsed(w http.ResponseWriter, r *http.Request) {
	if !gate(h.service, w, r) {
		return
	}

	var body struct {
		UsedBy string `json:"usedBy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.Cards.MarkUsed(r.PathValue("id"), body.UsedBy); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Card marked as used"})
}
