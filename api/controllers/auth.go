package controllers

import (
	"context"
	"net/http"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/api/validators"
	"github.com/powercore-shop/storefront/internal/session"
	"github.com/powercore-shop/storefront/pkg/logger"
)

// SessionService is the session state machine the auth routes drive.
type SessionService interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password, fullName string) error
	Logout(ctx context.Context)
	State() session.State
	CurrentUser() *session.User
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=100"`
}

type sessionView struct {
	State string        `json:"state"`
	User  *session.User `json:"user,omitempty"`
}

func newSessionView(svc SessionService) sessionView {
	return sessionView{
		State: svc.State().String(),
		User:  svc.CurrentUser(),
	}
}

func AuthLogin(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Login(r.Context(), payload.Email, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newSessionView(svc))
	}
}

func AuthRegister(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Register(r.Context(), payload.Email, payload.Password, payload.FullName); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newSessionView(svc))
	}
}

func AuthLogout(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.Logout(r.Context())
		responses.WriteSuccess(w, newSessionView(svc))
	}
}

func AuthMe(svc SessionService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, newSessionView(svc))
	}
}
