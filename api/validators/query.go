package validators

import (
	"net/http"
	"strconv"
	"strings"
)

// MaxPage caps page numbers so offsets stay well inside int range.
const MaxPage = 100000

// QueryPage reads ?page= leniently. Missing, malformed or out of range values
// mean the first page, the same way catalog search reads its paging input.
func QueryPage(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("page"))
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > MaxPage {
		return 1
	}
	return page
}
