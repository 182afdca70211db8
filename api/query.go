package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
)

// pageRequest reads ?page and ?limit; absent values fall back to the defaults
func pageRequest(r *http.Request) (database.PageRequest, error) {
	page, err := queryInt(r, "page", database.DefaultPage)
	if err != nil {
		return database.PageRequest{}, err
	}
	limit, err := queryInt(r, "limit", database.DefaultLimit)
	if err != nil {
		return database.PageRequest{}, err
	}
	return database.PageRequest{Page: page, Limit: limit}.Normalize(), nil
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(key, "must be a whole number")
	}
	return n, nil
}

// queryBool returns nil when the parameter is absent
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errs.NewInvalidFieldError(key, "must be true or false")
	}
	return &b, nil
}
