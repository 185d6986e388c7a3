package controllers

import (
	"net/http"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/api/validators"
	"github.com/angelmondragon/autosallon-backend/internal/favorites"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

func favoritesServiceMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favorites service unavailable"))
}

// FavoritesList returns the signed-in user's favorite vehicles, newest first.
func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			favoritesServiceMissing(w, r, logg)
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page := validators.QueryPage(r)
		result, err := svc.List(r.Context(), userID, page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// FavoriteToggle adds the vehicle when absent and removes it otherwise.
func FavoriteToggle(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			favoritesServiceMissing(w, r, logg)
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicleID, err := uuidParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Toggle(r.Context(), userID, vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func FavoriteRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			favoritesServiceMissing(w, r, logg)
			return
		}
		userID, err := requireUser(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicleID, err := uuidParam(r, "vehicleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Remove(r.Context(), userID, vehicleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
