package handler

import (
	"encoding/json"
	"net/http"

	"pagebase/internal/workspace"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ValueHandler struct {
	Svc *workspace.Service
	Log *zap.SugaredLogger
}

// Set upserts one value. The body carries page_id and property_id next to
// the value fields being written.
func (h *ValueHandler) Set(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var body map[string]any
	if err := dec.Decode(&body); err != nil || body == nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	pageID, _ := body["page_id"].(string)
	propertyID, _ := body["property_id"].(string)
	if pageID == "" || propertyID == "" {
		http.Error(w, "page_id and property_id required", http.StatusBadRequest)
		return
	}
	delete(body, "page_id")
	delete(body, "property_id")
	delete(body, "id")

	v, err := h.Svc.SetValue(r.Context(), pageID, propertyID, body)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	prop, err := h.Svc.GetProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toValueDTO(v, prop))
}

func (h *ValueHandler) Get(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "propertyID")
	v, err := h.Svc.GetValue(r.Context(), chi.URLParam(r, "pageID"), propertyID)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	prop, err := h.Svc.GetProperty(r.Context(), propertyID)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toValueDTO(v, prop))
}

// ListForPage returns the page's stored values, each typed by its property.
func (h *ValueHandler) ListForPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "id")
	values, err := h.Svc.ListValues(r.Context(), pageID)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}

	out := make([]valueDTO, 0, len(values))
	if len(values) > 0 {
		page, err := h.Svc.GetPage(r.Context(), pageID)
		if err != nil {
			writeError(w, h.Log, r, err)
			return
		}
		props := map[string]workspace.Property{}
		if page.ContainerID != nil {
			list, err := h.Svc.ListProperties(r.Context(), *page.ContainerID)
			if err != nil {
				writeError(w, h.Log, r, err)
				return
			}
			for _, p := range list {
				props[p.ID] = p
			}
		}
		for _, v := range values {
			if p, ok := props[v.PropertyID]; ok {
				out = append(out, toValueDTO(v, p))
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}
