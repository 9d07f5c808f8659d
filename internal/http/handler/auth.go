package handler

import (
	"net/http"

	"pagebase/internal/auth"
)

type AuthHandler struct {
	Lock *auth.Lock
	JWT  *auth.JWT
}

type loginReq struct {
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decode(w, r, &req) {
		return
	}
	if req.Password == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if !h.Lock.Check(req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.JWT.Sign(auth.Subject)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
	})
}
