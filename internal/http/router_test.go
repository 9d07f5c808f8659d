package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pagebase/internal/auth"
	"pagebase/internal/config"
	"pagebase/internal/db"
	"pagebase/internal/ident"
	"pagebase/internal/property"
	"pagebase/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, lock *auth.Lock) (http.Handler, *auth.JWT) {
	t.Helper()
	log := zap.NewNop().Sugar()

	gdb, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "api.db"), log)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb, db.DriverSQLite, log))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	svc := workspace.NewService(gdb, ident.New(), property.NewCoercer(log, time.UTC), log)
	jwtSvc := auth.NewJWT("test-secret")
	return NewRouter(config.Config{}, svc, jwtSvc, lock, log), jwtSvc
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	return rec
}

func (c client) json(method, path string, body any, wantStatus int) map[string]any {
	c.t.Helper()
	rec := c.do(method, path, body)
	require.Equal(c.t, wantStatus, rec.Code, rec.Body.String())
	var out map[string]any
	require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	rec := client{t: t, h: h}.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWorkspaceFlow(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	c := client{t: t, h: h}

	d := c.json(http.MethodPost, "/databases", map[string]any{"title": "Tasks"}, http.StatusCreated)
	dbID := d["id"].(string)

	prop := c.json(http.MethodPost, "/properties", map[string]any{
		"database_id": dbID,
		"name":        "Status",
		"type":        "status",
		"config": map[string]any{"options": []map[string]any{
			{"id": "todo", "label": "To do"},
			{"id": "done", "label": "Done", "color": "green"},
		}},
	}, http.StatusCreated)
	propID := prop["id"].(string)
	opts := prop["config"].(map[string]any)["options"].([]any)
	assert.Equal(t, "To do", opts[0].(map[string]any)["name"])

	patched := c.json(http.MethodPatch, "/properties/"+propID, map[string]any{"name": "Stage", "config": nil}, http.StatusOK)
	assert.Equal(t, "Stage", patched["name"])
	assert.Equal(t, prop["config"], patched["config"])

	page := c.json(http.MethodPost, "/pages", map[string]any{
		"container_id": dbID,
		"title":        "Draft plan",
		"content":      map[string]any{"blocks": []any{}},
	}, http.StatusCreated)
	pageID := page["id"].(string)
	assert.Equal(t, map[string]any{"blocks": []any{}}, page["content"])

	v1 := c.json(http.MethodPost, "/values", map[string]any{"page_id": pageID, "property_id": propID, "option_id": "todo"}, http.StatusOK)
	v2 := c.json(http.MethodPost, "/values", map[string]any{"page_id": pageID, "property_id": propID, "option_id": "done"}, http.StatusOK)
	assert.Equal(t, v1["id"], v2["id"])
	assert.Equal(t, "done", v2["option_id"])
	assert.Equal(t, "done", v2["value"])

	got := c.json(http.MethodGet, "/values/"+pageID+"/"+propID, nil, http.StatusOK)
	assert.Equal(t, v2["id"], got["id"])

	list := c.json(http.MethodGet, "/pages/"+pageID+"/values", nil, http.StatusOK)
	assert.Len(t, list["items"], 1)

	detail := c.json(http.MethodGet, "/databases/"+dbID, nil, http.StatusOK)
	assert.Len(t, detail["properties"], 1)

	filtered := c.json(http.MethodGet, "/databases/"+dbID+"/pages?property_id="+propID+"&op=is&value=done", nil, http.StatusOK)
	assert.Len(t, filtered["items"], 1)
	filtered = c.json(http.MethodGet, "/databases/"+dbID+"/pages?property_id="+propID+"&op=is&value=todo", nil, http.StatusOK)
	assert.Len(t, filtered["items"], 0)

	hits := c.json(http.MethodGet, "/search?q=draft", nil, http.StatusOK)
	require.Len(t, hits["items"], 1)
	assert.Equal(t, "page", hits["items"].([]any)[0].(map[string]any)["kind"])

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/databases/"+dbID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/pages/"+pageID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/values/"+pageID+"/"+propID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/databases/"+dbID, nil).Code)
}

func TestErrorStatuses(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	c := client{t: t, h: h}

	d := c.json(http.MethodPost, "/databases", map[string]any{"title": "Budget"}, http.StatusCreated)
	dbID := d["id"].(string)

	rec := c.do(http.MethodPost, "/properties", map[string]any{"database_id": dbID, "name": "Amount", "type": "currency"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	done := c.json(http.MethodPost, "/properties", map[string]any{"database_id": dbID, "name": "Paid", "type": "checkbox"}, http.StatusCreated)
	page := c.json(http.MethodPost, "/pages", map[string]any{"container_id": dbID}, http.StatusCreated)
	assert.Equal(t, "Untitled", page["title"])

	rec = c.do(http.MethodPost, "/values", map[string]any{"page_id": page["id"], "property_id": done["id"], "checked": "yes"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/values", map[string]any{"page_id": page["id"], "property_id": "missing", "checked": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	v := c.json(http.MethodPost, "/values", map[string]any{"page_id": page["id"], "property_id": done["id"]}, http.StatusOK)
	assert.Equal(t, false, v["value"])

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/values", map[string]any{"checked": true}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/databases/missing", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPatch, "/pages/missing", map[string]any{"title": "x"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		c.do(http.MethodGet, "/databases/"+dbID+"/pages?property_id="+done["id"].(string)+"&op=contains", nil).Code)

	hits := c.json(http.MethodGet, "/search?q=%20", nil, http.StatusOK)
	assert.Len(t, hits["items"], 0)
}

func TestWorkspaceLock(t *testing.T) {
	lock, err := auth.NewLock("hunter2")
	require.NoError(t, err)
	h, _ := newTestRouter(t, lock)
	c := client{t: t, h: h}

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/databases", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/auth/login", map[string]any{"password": "nope"}).Code)

	login := c.json(http.MethodPost, "/auth/login", map[string]any{"password": "hunter2"}, http.StatusOK)
	c.token = login["token"].(string)

	list := c.json(http.MethodGet, "/databases", nil, http.StatusOK)
	assert.Len(t, list["items"], 0)
}
