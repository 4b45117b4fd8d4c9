package admin

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bintangmas1/app-point/internal/activitylog"
	"github.com/bintangmas1/app-point/internal/customer"
	"github.com/bintangmas1/app-point/internal/worker"
)

// queryBool parses "true"/"false" style values; anything else is unset.
func queryBool(c echo.Context, name string) *bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c echo.Context, name string) int {
	n, _ := strconv.Atoi(c.QueryParam(name))
	return n
}

// CustomerFilter reads the customer list query string:
// status, min_point, search, sort (created_at|name|point), asc, page, page_size.
func CustomerFilter(c echo.Context) customer.Filter {
	f := customer.Filter{
		Status:    queryBool(c, "status"),
		Search:    c.QueryParam("search"),
		OrderBy:   c.QueryParam("sort"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "page_size"),
		Ascending: c.QueryParam("asc") == "true",
	}
	if v, err := strconv.ParseInt(c.QueryParam("min_point"), 10, 64); err == nil {
		f.MinPoint = &v
	}
	return f
}

// LogFilter reads the activity log query string:
// customer_id, worker_id, search, asc, page, page_size.
func LogFilter(c echo.Context) activitylog.Filter {
	return activitylog.Filter{
		CustomerID: c.QueryParam("customer_id"),
		WorkerID:   c.QueryParam("worker_id"),
		Search:     c.QueryParam("search"),
		Ascending:  c.QueryParam("asc") == "true",
		Page:       queryInt(c, "page"),
		PageSize:   queryInt(c, "page_size"),
	}
}

func WorkerFilter(c echo.Context) worker.Filter {
	return worker.Filter{
		Status:    queryBool(c, "status"),
		Search:    c.QueryParam("search"),
		Ascending: c.QueryParam("asc") == "true",
	}
}
