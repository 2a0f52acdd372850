package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// Login handles POST /auth/login
// Any non-empty email and password sign in. The token is returned in the
// body and set as the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	// Signing in again replaces the current session.
	if token, ok := tokenFrom(r.Context()); ok {
		h.sessions.Logout(token)
	}

	sess, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: sess.Token, User: sess})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := requestToken(r); token != "" {
		h.sessions.Logout(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(r.Context())
	if !ok {
		h.writeServiceError(w, r, model.ErrLoginRequired)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}
