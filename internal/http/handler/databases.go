package handler

import (
	"net/http"
	"strconv"

	"pagebase/internal/workspace"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DatabaseHandler struct {
	Svc *workspace.Service
	Log *zap.SugaredLogger
}

type createDatabaseReq struct {
	Title           string  `json:"title"`
	Icon            *string `json:"icon"`
	ContainerPageID *string `json:"container_page_id"`
}

type updateDatabaseReq struct {
	Title *string `json:"title"`
	Icon  *string `json:"icon"`
}

func (h *DatabaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDatabaseReq
	if !decode(w, r, &req) {
		return
	}
	d, err := h.Svc.CreateDatabase(r.Context(), workspace.CreateDatabaseInput{
		Title:           req.Title,
		Icon:            req.Icon,
		ContainerPageID: req.ContainerPageID,
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDatabaseDTO(d))
}

func (h *DatabaseHandler) List(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	rows, err := h.Svc.ListDatabases(r.Context(), offset, limit)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	out := make([]databaseDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, toDatabaseDTO(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// Get returns the database with its ordered properties.
func (h *DatabaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := h.Svc.GetDatabase(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	props, err := h.Svc.ListProperties(r.Context(), id)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	dto := toDatabaseDTO(d)
	dto.Properties = toPropertyDTOs(props)
	writeJSON(w, http.StatusOK, dto)
}

func (h *DatabaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDatabaseReq
	if !decode(w, r, &req) {
		return
	}
	d, err := h.Svc.UpdateDatabase(r.Context(), chi.URLParam(r, "id"), workspace.UpdateDatabaseInput{
		Title: req.Title,
		Icon:  req.Icon,
	})
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDatabaseDTO(d))
}

func (h *DatabaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.Svc.DeleteDatabase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeDeleted(w, found)
}

func (h *DatabaseHandler) Properties(w http.ResponseWriter, r *http.Request) {
	props, err := h.Svc.ListProperties(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toPropertyDTOs(props)})
}

// Pages lists the database's pages, optionally filtered by
// ?property_id=&op=&value=.
func (h *DatabaseHandler) Pages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter *workspace.PageFilter
	if pid := q.Get("property_id"); pid != "" {
		filter = &workspace.PageFilter{
			PropertyID: pid,
			Op:         workspace.FilterOp(q.Get("op")),
			Value:      q.Get("value"),
		}
	}

	pages, err := h.Svc.ListPages(r.Context(), chi.URLParam(r, "id"), filter)
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toPageDTOs(pages)})
}
