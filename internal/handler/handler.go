package handler

import (
	"net/http"
	"strconv"
)

type listQueryValues struct {
	Skip  int
	Limit int
}

func retrieveListQueryValues(r *http.Request) *listQueryValues {
	queryValues := &listQueryValues{
		Skip:  0,
		Limit: 100,
	}

	skipStr := r.URL.Query().Get("skip")
	if skipStr != "" {
		if parsedSkip, err := strconv.Atoi(skipStr); err == nil && parsedSkip >= 0 {
			queryValues.Skip = parsedSkip
		}
	}

	limitStr := r.URL.Query().Get("limit")
	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			queryValues.Limit = parsedLimit
		}
	}

	return queryValues
}
