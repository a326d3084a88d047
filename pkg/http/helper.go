package http

import (
	"net/http"
	"strconv"

	"tdms/pkg/calendar"
	apperrors "tdms/pkg/errors"
	"tdms/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// ExtractPeriod parses the :year/:month route segments into a MonthKey.
func ExtractPeriod(ps httprouter.Params) (model.MonthKey, error) {
	year, err := strconv.Atoi(ps.ByName("year"))
	if err != nil || year < 2000 || year > 2100 {
		return model.MonthKey{}, apperrors.InvalidInput("year must be a number between 2000 and 2100")
	}

	month, err := strconv.Atoi(ps.ByName("month"))
	if err != nil || calendar.DaysInMonth(month, year) == 0 {
		return model.MonthKey{}, apperrors.InvalidInput("month must be a number between 1 and 12")
	}

	return model.MonthKey{Year: year, Month: month}, nil
}

// ExtractLimitOffset reads pagination query parameters, clamping them to
// sane bounds.
func ExtractLimitOffset(r *http.Request, maxLimit int) (int, int64, error) {
	query := r.URL.Query()

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	if limit <= 0 {
		limit = 10
	} else if limit > maxLimit {
		limit = maxLimit
	}

	var offset int64
	if s := query.Get("offset"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid offset parameter: " + s)
		}
		offset = max(v, 0)
	}

	return limit, offset, nil
}
