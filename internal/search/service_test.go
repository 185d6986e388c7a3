package search

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/angelmondragon/autosallon-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
	"github.com/angelmondragon/autosallon-backend/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_EmptyStore(t *testing.T) {
	svc := newTestService(t, newTestClient(t), 24)

	res, err := svc.Search(context.Background(), url.Values{})
	require.NoError(t, err)

	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, int64(0), res.Total)
	assert.Equal(t, int64(0), res.From)
	assert.Equal(t, int64(0), res.To)
	require.Len(t, res.Facets, len(FacetColumns))
	for _, col := range FacetColumns {
		values, ok := res.Facets[col]
		require.True(t, ok, "facet %s missing", col)
		assert.NotNil(t, values)
		assert.Empty(t, values)
	}
}

func TestSearch_FreeTextMatchesAnySearchableColumn(t *testing.T) {
	client := newTestClient(t)
	byMaker := seed(t, client, "BMW", "X5", withYear(2019))
	byTrim := seed(t, client, "Alpina", "B3", withTrim("based on bmw 3 series"))
	byVIN := seed(t, client, "Mini", "Cooper", withVIN("WBMWXX123"))
	seed(t, client, "Audi", "A4", withColor("Black"))
	seed(t, client, "Volkswagen", "Golf", withFuel("Diesel"))

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{"q": {"  BMW "}})
	require.NoError(t, err)

	got := map[uuid.UUID]bool{}
	pred := Build(ParseFilterState(url.Values{"q": {"BMW"}}))
	for _, item := range res.Items {
		got[item.ID] = true
	}
	assert.Equal(t, int64(3), res.Total)
	assert.True(t, got[byMaker.ID])
	assert.True(t, got[byTrim.ID])
	assert.True(t, got[byVIN.ID])

	for _, id := range []uuid.UUID{byMaker.ID, byTrim.ID, byVIN.ID} {
		assert.True(t, pred.Matches(mustLoad(t, client, id)), "vehicle %s should satisfy predicate", id)
	}
}

func TestSearch_FacetSelectionAndYearRange(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Audi", "A6", withFuel("Diesel"), withYear(2017))
	seed(t, client, "Audi", "A6", withFuel("Diesel"), withYear(2018))
	seed(t, client, "BMW", "320d", withFuel("Diesel"), withYear(2021))
	seed(t, client, "Toyota", "Prius", withFuel("Hybrid"), withYear(2022))
	seed(t, client, "Skoda", "Octavia", withFuel("Diesel"))

	svc := newTestService(t, client, 24)
	params := url.Values{"karburanti[]": {"Diesel"}, "min_viti": {"2018"}}
	res, err := svc.Search(context.Background(), params)
	require.NoError(t, err)

	require.Equal(t, int64(2), res.Total)
	for _, item := range res.Items {
		require.NotNil(t, item.Fuel)
		assert.Equal(t, "Diesel", *item.Fuel)
		require.NotNil(t, item.Year)
		assert.GreaterOrEqual(t, *item.Year, 2018)
	}
}

func TestSearch_TotalMatchesFacetBase(t *testing.T) {
	client := newTestClient(t)
	for i := 0; i < 3; i++ {
		seed(t, client, "Audi", "A4", withFuel("Diesel"))
	}
	seed(t, client, "BMW", "X1", withFuel("Diesel"))
	seed(t, client, "BMW", "X3", withFuel("Petrol"))

	svc := newTestService(t, client, 2)
	res, err := svc.Search(context.Background(), url.Values{"fuel": {"Diesel"}})
	require.NoError(t, err)

	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(4), res.Total)

	var sum int64
	for _, fv := range res.Facets[ColumnManufacturer] {
		sum += fv.Count
	}
	assert.Equal(t, res.Total, sum, "facet counts must cover the full filtered set, not the page")
	assert.Equal(t, []FacetValue{{Value: "Diesel", Count: 4}}, res.Facets[ColumnFuel])
}

func TestSearch_FacetOrderingAndExclusions(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Opel", "Astra", withColor("White"), withYear(2015), withSeats(5))
	seed(t, client, "Audi", "A3", withColor(""), withYear(2019), withSeats(5))
	seed(t, client, "Fiat", "Doblo", withYear(2019), withSeats(7))
	seed(t, client, "Audi", "A3", withColor("White"), withYear(2015))
	seed(t, client, "Citroen", "C4", withColor("Red"))

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{})
	require.NoError(t, err)

	want := FacetSummary{
		ColumnManufacturer: {{"Audi", 2}, {"Citroen", 1}, {"Fiat", 1}, {"Opel", 1}},
		ColumnModel:        {{"A3", 2}, {"Astra", 1}, {"C4", 1}, {"Doblo", 1}},
		ColumnFuel:         {},
		ColumnTransmission: {},
		ColumnColor:        {{"White", 2}, {"Red", 1}},
		ColumnSeats:        {{"5", 2}, {"7", 1}},
		ColumnYear:         {{"2019", 2}, {"2015", 2}},
	}
	if diff := cmp.Diff(want, res.Facets); diff != "" {
		t.Fatalf("unexpected facets (-want +got):\n%s", diff)
	}
}

func TestSearch_FacetLimits(t *testing.T) {
	client := newTestClient(t)
	for i := 0; i < 8; i++ {
		seed(t, client, "Make", "Model", withSeats(i+1))
	}

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Len(t, res.Facets[ColumnSeats], config.DefaultSearchConfig().SeatsFacetLimit)
}

func TestSearch_FacetCountsAreNonIncreasing(t *testing.T) {
	client := newTestClient(t)
	makers := []string{"Audi", "BMW", "BMW", "Citroen", "BMW", "Audi", "Dacia"}
	for _, m := range makers {
		seed(t, client, m, "Any")
	}

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{})
	require.NoError(t, err)
	for col, values := range res.Facets {
		for i := 1; i < len(values); i++ {
			assert.LessOrEqual(t, values[i].Count, values[i-1].Count, "facet %s out of order", col)
		}
		for _, v := range values {
			assert.NotEmpty(t, v.Value)
		}
	}
}

func TestSearch_PriceAscNullsLast(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "A", "1", withPrice(15000))
	seed(t, client, "B", "2")
	seed(t, client, "C", "3", withPrice(9000))
	seed(t, client, "D", "4", withPrice(21000))
	seed(t, client, "E", "5")

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{"sort": {"price_asc"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 5)

	var prices []int
	for i, item := range res.Items {
		if item.Price == nil {
			for _, rest := range res.Items[i:] {
				assert.Nil(t, rest.Price, "priced vehicle after an unpriced one")
			}
			break
		}
		prices = append(prices, *item.Price)
	}
	assert.Equal(t, []int{9000, 15000, 21000}, prices)
	// unpriced vehicles fall back to newest first
	assert.Equal(t, "E", res.Items[3].Manufacturer)
	assert.Equal(t, "B", res.Items[4].Manufacturer)

	desc, err := svc.Search(context.Background(), url.Values{"sort": {"price_desc"}})
	require.NoError(t, err)
	require.NotNil(t, desc.Items[0].Price)
	assert.Equal(t, 21000, *desc.Items[0].Price)
	assert.Nil(t, desc.Items[4].Price)
}

func TestSearch_SortKeysPutNullsLast(t *testing.T) {
	cases := []struct {
		sort string
		opt  func(int) vehicleOpt
		want []string
	}{
		{sort: "price_desc", opt: withPrice, want: []string{"D", "A", "C", "E", "B"}},
		{sort: "km_asc", opt: withMileage, want: []string{"C", "A", "D", "E", "B"}},
		{sort: "km_desc", opt: withMileage, want: []string{"D", "A", "C", "E", "B"}},
		{sort: "year_asc", opt: withYear, want: []string{"C", "A", "D", "E", "B"}},
		{sort: "year_desc", opt: withYear, want: []string{"D", "A", "C", "E", "B"}},
	}

	for _, tc := range cases {
		t.Run(tc.sort, func(t *testing.T) {
			client := newTestClient(t)
			seed(t, client, "A", "1", tc.opt(2015))
			seed(t, client, "B", "2")
			seed(t, client, "C", "3", tc.opt(2009))
			seed(t, client, "D", "4", tc.opt(2021))
			seed(t, client, "E", "5")

			svc := newTestService(t, client, 24)
			res, err := svc.Search(context.Background(), url.Values{"sort": {tc.sort}})
			require.NoError(t, err)

			got := make([]string, 0, len(res.Items))
			for _, item := range res.Items {
				got = append(got, item.Manufacturer)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("unexpected order for %s (-want +got):\n%s", tc.sort, diff)
			}
		})
	}
}

func TestSearch_FreeTextFoldsNonASCIICase(t *testing.T) {
	client := newTestClient(t)
	skoda := seed(t, client, "Škoda", "Octavia")
	citroen := seed(t, client, "CITROËN", "C4")
	seed(t, client, "Seat", "Leon")

	svc := newTestService(t, client, 24)
	for q, want := range map[string]uuid.UUID{
		"ŠKODA":   skoda.ID,
		"škoda":   skoda.ID,
		"citroën": citroen.ID,
	} {
		res, err := svc.Search(context.Background(), url.Values{"q": {q}})
		require.NoError(t, err)
		require.Len(t, res.Items, 1, "query %q", q)
		assert.Equal(t, want, res.Items[0].ID, "query %q", q)
	}
}

func TestSearch_DefaultAndRelevanceSortAreNewestFirst(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Old", "1")
	seed(t, client, "Mid", "2")
	seed(t, client, "New", "3")

	svc := newTestService(t, client, 24)
	for _, sort := range []string{"", "relevance", "nonsense"} {
		res, err := svc.Search(context.Background(), url.Values{"sort": {sort}})
		require.NoError(t, err)
		require.Len(t, res.Items, 3)
		assert.Equal(t, []string{"New", "Mid", "Old"}, []string{
			res.Items[0].Manufacturer, res.Items[1].Manufacturer, res.Items[2].Manufacturer,
		}, "sort %q", sort)
	}
}

func TestSearch_PaginationWindow(t *testing.T) {
	client := newTestClient(t)
	for i := 0; i < 30; i++ {
		seed(t, client, "Make", "Model")
	}
	svc := newTestService(t, client, 24)

	first, err := svc.Search(context.Background(), url.Values{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.From)
	assert.Equal(t, int64(24), first.To)
	assert.Equal(t, 2, first.LastPage)

	second, err := svc.Search(context.Background(), url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.Len(t, second.Items, 6)
	assert.Equal(t, int64(25), second.From)
	assert.Equal(t, int64(30), second.To)

	beyond, err := svc.Search(context.Background(), url.Values{"page": {"7"}})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, int64(30), beyond.Total)
	assert.Equal(t, int64(0), beyond.From)
	assert.Equal(t, int64(0), beyond.To)

	bad, err := svc.Search(context.Background(), url.Values{"page": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, 1, bad.Page)
}

func TestSearch_IsIdempotent(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Audi", "A4", withPrice(10000), withFuel("Diesel"))
	seed(t, client, "Audi", "A6", withPrice(10000), withFuel("Diesel"))
	seed(t, client, "BMW", "X5", withPrice(30000), withFuel("Petrol"))

	svc := newTestService(t, client, 2)
	params := url.Values{"q": {"a"}, "sort": {"price_asc"}}

	first, err := svc.Search(context.Background(), params)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), params)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("repeated search differs (-first +second):\n%s", diff)
	}
}

func TestSearch_MalformedNumbersAreIgnored(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Audi", "A4", withYear(2010), withPrice(5000))
	seed(t, client, "BMW", "X5", withYear(2020), withPrice(50000))

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{
		"min_viti": {"twenty"},
		"max_cmim": {"cheap"},
		"uleset":   {"many"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}

func TestSearch_LikeWildcardsAreLiteral(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Audi", "A4")
	seed(t, client, "Tesla", "Model_3")

	svc := newTestService(t, client, 24)
	res, err := svc.Search(context.Background(), url.Values{"q": {"%"}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	res, err = svc.Search(context.Background(), url.Values{"q": {"l_3"}})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	assert.Equal(t, "Tesla", res.Items[0].Manufacturer)
}

func TestSuggest_ReturnsSearchShape(t *testing.T) {
	client := newTestClient(t)
	seed(t, client, "Audi", "A4", withImages(" https://cdn/a4.jpg "))
	svc := newTestService(t, client, 24)

	res, err := svc.Suggest(context.Background(), url.Values{"q": {"aud"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "https://cdn/a4.jpg", res.Items[0].MainImage)
	assert.Equal(t, int64(1), res.From)
	assert.Equal(t, int64(1), res.To)
	assert.Len(t, res.Facets, len(FacetColumns))
}

type failingStore struct {
	err error
}

func (f failingStore) Snapshot(context.Context, func(Reader) error) error {
	return f.err
}

func TestSearch_StoreFailureAbortsRequest(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Store:  failingStore{err: errors.New("connection refused")},
		Config: config.DefaultSearchConfig(),
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)

	res, err := svc.Search(context.Background(), url.Values{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestNewServiceValidatesDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{Logger: logger.New(logger.Options{Output: io.Discard})})
	assert.Error(t, err)
	_, err = NewService(ServiceParams{Store: failingStore{}})
	assert.Error(t, err)
}
