package handler

import (
	"encoding/json"
	"net/http"

	"pagebase/internal/workspace"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PageHandler struct {
	Svc *workspace.Service
	Log *zap.SugaredLogger
}

type createPageReq struct {
	ContainerID *string         `json:"container_id"`
	Title       string          `json:"title"`
	Icon        *string         `json:"icon"`
	Cover       *string         `json:"cover"`
	Content     json.RawMessage `json:"content"`
}

type updatePageReq struct {
	Title   *string         `json:"title"`
	Icon    *string         `json:"icon"`
	Cover   *string         `json:"cover"`
	Content json.RawMessage `json:"content"`
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPageReq
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Svc.CreatePage(r.Context(), workspace.CreatePageInput{
		ContainerID: req.ContainerID,
		Title:       req.Title,
		Icon:        req.Icon,
		Cover:       req.Cover,
		Content:     content(req.Content),
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPageDTO(p))
}

// Roots lists the standalone pages shown in the sidebar.
func (h *PageHandler) Roots(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Svc.ListRootPages(r.Context())
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toPageDTOs(pages)})
}

func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetPage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(p))
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updatePageReq
	if !decode(w, r, &req) {
		return
	}
	p, err := h.Svc.UpdatePage(r.Context(), chi.URLParam(r, "id"), workspace.UpdatePageInput{
		Title:   req.Title,
		Icon:    req.Icon,
		Cover:   req.Cover,
		Content: content(req.Content),
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPageDTO(p))
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.Svc.DeletePage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeDeleted(w, found)
}
