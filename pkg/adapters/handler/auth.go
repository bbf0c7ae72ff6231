package handler

import (
	"net/http"

	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type AuthHandler struct {
	auth ports.AuthService
	errs *errorWriter
}

func NewAuthHandler(authSvc ports.AuthService, errs *errorWriter) *AuthHandler {
	return &AuthHandler{auth: authSvc, errs: errs}
}

type loginRequest struct {
	Username any `json:"username"`
	Password any `json:"password"`
}

type loginResponse struct {
	Token string        `json:"token"`
	User  auth.Identity `json:"user"`
}

type verifyResponse struct {
	User auth.Identity `json:"user"`
}

// Login exchanges a username and password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.write(w, r, err)
		return
	}

	token, user, err := h.auth.Login(r.Context(), stringValue(req.Username), stringValue(req.Password))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: auth.IdentityOf(user)})
}

// Verify reports the account behind the presented token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.errs.write(w, r, domain.NewUnauthorizedError("No token provided"))
		return
	}

	user, err := h.auth.Authenticate(r.Context(), token)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{User: auth.IdentityOf(user)})
}
