package controllers

import (
	"net/http"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/api/validators"
	"github.com/angelmondragon/autosallon-backend/internal/instocks"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

func instockServiceMissing(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "instock service unavailable"))
}

// InStockLatest lists the newest showroom items for the public site.
func InStockLatest(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		items, err := svc.Latest(r.Context(), instocks.LatestLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminInStockList(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		page := validators.QueryPage(r)
		result, err := svc.List(r.Context(), page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminInStockGet(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminInStockCreate(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		var body instocks.ItemInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func AdminInStockUpdate(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body instocks.ItemInput
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminInStockDelete(svc instocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			instockServiceMissing(w, r, logg)
			return
		}
		id, err := uuidParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
