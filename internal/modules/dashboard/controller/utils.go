package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"satmon/internal/satellite"
)

const (
	defaultEventsLimit = 50
	maxEventsLimit     = 500
)

func parseEventsQuery(r *http.Request) (kind string, limit int, err error) {
	q := r.URL.Query()

	kind = strings.ToLower(strings.TrimSpace(q.Get("type")))
	if kind == "" {
		kind = satellite.AllEvents
	}

	limit = defaultEventsLimit
	if s := q.Get("limit"); s != "" {
		n, convErr := strconv.Atoi(s)
		if convErr != nil {
			return "", 0, errors.New("invalid 'limit' (expected integer)")
		}
		if n <= 0 {
			return "", 0, errors.New("'limit' must be > 0")
		}
		if n > maxEventsLimit {
			return "", 0, errors.New("'limit' must be <= 500")
		}
		limit = n
	}
	return kind, limit, nil
}
