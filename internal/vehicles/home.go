package vehicles

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/angelmondragon/autosallon-backend/internal/instocks"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/pagination"
	"github.com/google/uuid"
)

var albanianMonths = [...]string{
	"Janar", "Shkurt", "Mars", "Prill", "Maj", "Qershor",
	"Korrik", "Gusht", "Shtator", "Tetor", "Nëntor", "Dhjetor",
}

type instockLister interface {
	Latest(ctx context.Context, limit int) ([]instocks.ItemView, error)
}

// HomePage is the storefront landing payload.
type HomePage struct {
	TodayLabel string              `json:"today_label"`
	Picks      []VehicleView       `json:"picks"`
	Latest     []VehicleView       `json:"latest"`
	Pagination pagination.Window   `json:"pagination"`
	InStocks   []instocks.ItemView `json:"instocks"`
}

// HomeService assembles the landing page.
type HomeService struct {
	repo     *Repository
	instocks instockLister
	picks    int
	pageSize int
	image    string
}

// NewHomeService wires the landing page from the catalog and the showroom items.
func NewHomeService(repo *Repository, items instockLister, picks, pageSize int, placeholder string) (*HomeService, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("instock lister required")
	}
	return &HomeService{repo: repo, instocks: items, picks: picks, pageSize: pageSize, image: placeholder}, nil
}

// Home builds the landing page for the calendar day of now. Picks stay stable
// for the whole day and change at midnight.
func (h *HomeService) Home(ctx context.Context, now time.Time) (*HomePage, error) {
	ids, err := h.repo.ListIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list vehicle ids")
	}
	pickIDs := DailyPicks(ids, now, h.picks)
	picked, err := h.repo.FindByIDs(ctx, pickIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load daily picks")
	}
	byID := make(map[uuid.UUID]int, len(picked))
	for i, v := range picked {
		byID[v.ID] = i
	}
	picks := make([]VehicleView, 0, len(pickIDs))
	for _, id := range pickIDs {
		if i, ok := byID[id]; ok {
			picks = append(picks, NewVehicleView(picked[i], h.image))
		}
	}

	params := pagination.Normalize(pagination.Params{Page: 1, PerPage: h.pageSize})
	latest, total, err := h.repo.ListLatest(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list latest vehicles")
	}

	items, err := h.instocks.Latest(ctx, instocks.LatestLimit)
	if err != nil {
		return nil, err
	}

	return &HomePage{
		TodayLabel: DayLabel(now),
		Picks:      picks,
		Latest:     NewVehicleViews(latest, h.image),
		Pagination: pagination.NewWindow(params, total, len(latest)),
		InStocks:   items,
	}, nil
}

// DailyPicks shuffles ids with a seed derived from the calendar date of now
// and keeps the first n. The input slice is not modified.
func DailyPicks(ids []uuid.UUID, now time.Time, n int) []uuid.UUID {
	shuffled := append([]uuid.UUID(nil), ids...)
	y, m, d := now.Date()
	seed := uint64(y*10000 + int(m)*100 + d)
	rng := rand.New(rand.NewPCG(seed, seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n >= 0 && len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// DayLabel renders the Albanian day label, e.g. "09 Tetor".
func DayLabel(now time.Time) string {
	return fmt.Sprintf("%02d %s", now.Day(), albanianMonths[now.Month()-1])
}
