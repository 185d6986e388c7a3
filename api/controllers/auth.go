package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/api/validators"
	"github.com/angelmondragon/autosallon-backend/internal/auth"
	"github.com/angelmondragon/autosallon-backend/internal/users"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

type loginer interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

type registerer interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*users.UserDTO, error)
}

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc loginer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(AccessTokenHeader, result.AccessToken)
		responses.WriteSuccess(w, result)
	}
}

// AuthRegister creates a guest account and signs it in straight away.
func AuthRegister(reg registerer, svc loginer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reg == nil || svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := reg.Register(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginRequest{Email: body.Email, Password: body.Password})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(AccessTokenHeader, result.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
