package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/autosallon-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		// unknown ids read as missing records, not bad input
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "not found")
	}
	return id, nil
}

func requireUser(r *http.Request) (uuid.UUID, error) {
	viewer := middleware.ViewerID(r.Context())
	if viewer == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return *viewer, nil
}
