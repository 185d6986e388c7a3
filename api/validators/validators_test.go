package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/autosallon-backend/pkg/errors"
)

type listingBody struct {
	Manufacturer string `json:"manufacturer" validate:"required,notblank,max=10"`
	Seats        *int   `json:"seats" validate:"omitempty,min=1,max=9"`
	ListingURL   string `json:"listing_url" validate:"omitempty,url"`
}

func decode(t *testing.T, body string) (listingBody, error) {
	t.Helper()
	var dest listingBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSONBody(httptest.NewRecorder(), req, &dest)
	return dest, err
}

func detailsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	return details
}

func TestDecodeJSONBodyAccepts(t *testing.T) {
	got, err := decode(t, `{"manufacturer":"Skoda","seats":5,"listing_url":"https://example.com/a"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Manufacturer != "Skoda" || got.Seats == nil || *got.Seats != 5 {
		t.Fatalf("unexpected decode %+v", got)
	}
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	_, err := decode(t, `{"manufacturer":"   ","seats":12,"listing_url":"not a url"}`)
	details := detailsOf(t, err)
	want := map[string]string{
		"manufacturer": "is required",
		"seats":        "must be at most 9",
		"listing_url":  "must be an absolute URL",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("field %s: expected %q, got %q (all %v)", field, msg, details[field], details)
		}
	}

	_, err = decode(t, `{"manufacturer":"Mercedes-Benz"}`)
	if got := detailsOf(t, err)["manufacturer"]; got != "must be at most 10 characters" {
		t.Fatalf("unexpected length message %q", got)
	}
}

func TestDecodeJSONBodyRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"manufacturer":"VW","colour":"red"}`,
		"wrong type":    `{"manufacturer":"VW","seats":"five"}`,
		"trailing data": `{"manufacturer":"VW"} {"manufacturer":"BMW"}`,
		"too large":     `{"manufacturer":"` + strings.Repeat("x", MaxBodyBytes) + `"}`,
	}
	for name, body := range cases {
		if _, err := decode(t, body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestQueryPage(t *testing.T) {
	cases := map[string]int{
		"":             1,
		"?page=3":      3,
		"?page=0":      1,
		"?page=-2":     1,
		"?page=abc":    1,
		"?page=200000": 1,
	}
	for query, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
		if got := QueryPage(req); got != want {
			t.Fatalf("QueryPage(%q) = %d, want %d", query, got, want)
		}
	}
}
