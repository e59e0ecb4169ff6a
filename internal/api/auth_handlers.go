package api

import (
	"net/http"

	"github.com/splitledger/splitledger/internal/middleware"
)

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	user, token, err := a.Auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusCreated, "user registered", map[string]any{
		"user":  user,
		"token": token,
	})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	user, token, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respond(w, http.StatusOK, "login successful", map[string]any{
		"user":  user,
		"token": token,
	})
}

func (a *API) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.Auth.GetUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "user fetched", user)
}
