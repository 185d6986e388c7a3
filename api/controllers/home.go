package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/autosallon-backend/api/responses"
	"github.com/angelmondragon/autosallon-backend/internal/vehicles"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
)

type homeBuilder interface {
	Home(ctx context.Context, now time.Time) (*vehicles.HomePage, error)
}

// Home returns today's picks, the newest listings and in-stock items.
func Home(svc homeBuilder, now func() time.Time, logg *logger.Logger) http.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "home service unavailable"))
			return
		}
		page, err := svc.Home(r.Context(), now())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
