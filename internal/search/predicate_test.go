package search

import (
	"testing"

	"github.com/angelmondragon/autosallon-backend/pkg/db/models"
)

func strPtr(s string) *string { return &s }

func TestBuildClauseOrder(t *testing.T) {
	pred := Build(FilterState{
		Query: " Golf ",
		Selections: map[Column][]string{
			ColumnYear: {"2019"},
			ColumnFuel: {"Diesel"},
		},
		Price: Range{Min: intPtr(1000)},
	})

	clauses := pred.Clauses()
	if len(clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d", len(clauses))
	}
	if clauses[0].Kind() != ClauseText || clauses[0].Needle() != "golf" {
		t.Fatalf("expected lowercased text clause first, got %+v", clauses[0])
	}
	if clauses[1].Column() != ColumnFuel || clauses[2].Column() != ColumnYear {
		t.Fatalf("expected facet clauses in display order, got %s then %s", clauses[1].Column(), clauses[2].Column())
	}
	if clauses[3].Kind() != ClauseRange || clauses[3].Column() != ColumnPrice || *clauses[3].Min() != 1000 || clauses[3].Max() != nil {
		t.Fatalf("unexpected range clause %+v", clauses[3])
	}
	if n := len(pred.Expressions()); n != 4 {
		t.Fatalf("expected 4 expressions, got %d", n)
	}
}

func TestPredicateIsImmutable(t *testing.T) {
	selections := map[Column][]string{ColumnFuel: {"Diesel"}}
	floor := 2018
	state := FilterState{Selections: selections, Year: Range{Min: &floor}}
	pred := Build(state)

	selections[ColumnFuel][0] = "Petrol"
	floor = 1990
	clauses := pred.Clauses()
	clauses[0] = Clause{}

	again := pred.Clauses()
	if again[0].Values()[0] != "Diesel" {
		t.Fatalf("predicate picked up a caller mutation: %v", again[0].Values())
	}
	if *again[1].Min() != 2018 {
		t.Fatalf("range bound picked up a caller mutation: %d", *again[1].Min())
	}
}

func TestEmptyPredicateMatchesEverything(t *testing.T) {
	pred := Build(FilterState{})
	if !pred.IsEmpty() {
		t.Fatal("expected empty predicate")
	}
	if !pred.Matches(models.Vehicle{}) {
		t.Fatal("empty predicate must match any vehicle")
	}
}

func TestPredicateMatches(t *testing.T) {
	year := 2019
	seats := 5
	v := models.Vehicle{
		Manufacturer: "Volkswagen",
		Model:        "Golf",
		Fuel:         strPtr("Diesel"),
		Year:         &year,
		Seats:        &seats,
	}

	cases := []struct {
		name  string
		state FilterState
		want  bool
	}{
		{name: "text on model", state: FilterState{Query: "GOL"}, want: true},
		{name: "text miss", state: FilterState{Query: "passat"}, want: false},
		{name: "text skips null columns", state: FilterState{Query: "red"}, want: false},
		{name: "facet OR within column", state: FilterState{Selections: map[Column][]string{ColumnFuel: {"Petrol", "Diesel"}}}, want: true},
		{name: "facet AND across columns", state: FilterState{Selections: map[Column][]string{ColumnFuel: {"Diesel"}, ColumnSeats: {"7"}}}, want: false},
		{name: "numeric facet", state: FilterState{Selections: map[Column][]string{ColumnYear: {"2019"}}}, want: true},
		{name: "inclusive bounds", state: FilterState{Year: Range{Min: intPtr(2019), Max: intPtr(2019)}}, want: true},
		{name: "below min", state: FilterState{Year: Range{Min: intPtr(2020)}}, want: false},
		{name: "null fails range", state: FilterState{Price: Range{Max: intPtr(50000)}}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Build(tc.state).Matches(v); got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("unexpected escape %q", got)
	}
}
