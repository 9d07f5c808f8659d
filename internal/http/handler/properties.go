package handler

import (
	"encoding/json"
	"net/http"

	"pagebase/internal/workspace"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PropertyHandler struct {
	Svc *workspace.Service
	Log *zap.SugaredLogger
}

type createPropertyReq struct {
	DatabaseID string          `json:"database_id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Config     json.RawMessage `json:"config"`
	OrderIndex *int            `json:"order_index"`
	Visible    *bool           `json:"visible"`
}

type updatePropertyReq struct {
	Name       *string         `json:"name"`
	Type       *string         `json:"type"`
	Config     json.RawMessage `json:"config"`
	OrderIndex *int            `json:"order_index"`
	Visible    *bool           `json:"visible"`
}

func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPropertyReq
	if !decode(w, r, &req) {
		return
	}
	if req.DatabaseID == "" {
		http.Error(w, "database_id required", http.StatusBadRequest)
		return
	}
	p, err := h.Svc.CreateProperty(r.Context(), workspace.CreatePropertyInput{
		DatabaseID: req.DatabaseID,
		Name:       req.Name,
		Type:       req.Type,
		Config:     req.Config,
		OrderIndex: req.OrderIndex,
		Visible:    req.Visible,
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPropertyDTO(p))
}

func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyDTO(p))
}

func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePropertyReq
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Svc.UpdateProperty(r.Context(), chi.URLParam(r, "id"), workspace.UpdatePropertyInput{
		Name:       req.Name,
		Type:       req.Type,
		Config:     req.Config,
		OrderIndex: req.OrderIndex,
		Visible:    req.Visible,
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyDTO(p))
}

func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.Svc.DeleteProperty(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeDeleted(w, found)
}
