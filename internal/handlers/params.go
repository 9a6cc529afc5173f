package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"investing/internal/apperr"
	"investing/internal/models"
)

// parsePage reads the optional limit and skip query parameters. Range
// checks happen in the services; this only rejects non-integers.
func parsePage(r *http.Request) (models.Page, error) {
	var (
		page   models.Page
		fields = map[string]string{}
	)
	q := r.URL.Query()
	for name, dst := range map[string]*int{"limit": &page.Limit, "skip": &page.Skip} {
		raw := strings.TrimSpace(q.Get(name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields[name] = "must be an integer"
			continue
		}
		*dst = n
	}
	if len(fields) > 0 {
		return models.Page{}, &apperr.ValidationError{Fields: fields}
	}
	return page, nil
}
