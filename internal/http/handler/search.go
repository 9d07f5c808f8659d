package handler

import (
	"net/http"

	"pagebase/internal/workspace"

	"go.uber.org/zap"
)

type SearchHandler struct {
	Svc *workspace.Service
	Log *zap.SugaredLogger
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.Svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.Log, r, err)
		return
	}
	out := make([]searchHitDTO, 0, len(hits))
	for _, hit := range hits {
		out = append(out, searchHitDTO{
			Kind:       hit.Kind,
			ID:         hit.ID,
			Title:      hit.Title,
			DatabaseID: hit.DatabaseID,
			PageID:     hit.PageID,
			PropertyID: hit.PropertyID,
			Text:       hit.Text,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}
