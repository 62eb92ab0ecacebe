package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/common"
	"juntacomunal/internal/tenancy"
)

const msgInvalidBody = "El cuerpo de la solicitud no es un JSON valido."

var bodyBinder = &echo.DefaultBinder{}

// bindBody decodes the JSON body into req and runs the struct validator.
// Path and query parameters are never bound into request bodies.
func bindBody(c echo.Context, req any) error {
	if err := bodyBinder.BindBody(c, req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code == http.StatusUnsupportedMediaType {
			return common.BadInput("Content-Type debe ser application/json.")
		}
		return common.BadInput(msgInvalidBody)
	}
	return c.Validate(req)
}

func pathID(c echo.Context, name string) (int64, error) {
	return common.ParseID(name, c.Param(name))
}

func access(c echo.Context) (tenancy.Access, error) {
	return tenancy.AccessFromContext(c.Request().Context())
}

func callerID(c echo.Context) (int64, error) {
	id, ok := common.GetUserIDFromContext(c.Request().Context())
	if !ok {
		return 0, common.Unauthenticated("Token invalido: user_id ausente o invalido.")
	}
	return id, nil
}

// queryReader parses list filters from the query string, keeping the first
// error so a parser can read every field before checking.
type queryReader struct {
	c   echo.Context
	err error
}

func newQuery(c echo.Context) *queryReader {
	return &queryReader{c: c}
}

func (q *queryReader) raw(name string) string {
	return strings.TrimSpace(q.c.QueryParam(name))
}

func (q *queryReader) fail(err error) {
	if q.err == nil && err != nil {
		q.err = err
	}
}

func (q *queryReader) text(name string) string {
	return q.raw(name)
}

// enum reads a filter restricted to allowed.
func (q *queryReader) enum(name string, check func(field, value string) error) string {
	v := q.raw(name)
	q.fail(check(name, v))
	return v
}

func (q *queryReader) id(name string) *int64 {
	v := q.raw(name)
	if v == "" {
		return nil
	}
	id, err := common.ParseID(name, v)
	if err != nil {
		q.fail(err)
		return nil
	}
	return &id
}

func (q *queryReader) boolean(name string) *bool {
	v := q.raw(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.fail(common.BadInput("%s debe ser true o false.", name))
		return nil
	}
	return &b
}

func (q *queryReader) date(name string) *time.Time {
	v := q.raw(name)
	if v == "" {
		return nil
	}
	d, err := common.ParseDate(name, v)
	if err != nil {
		q.fail(err)
		return nil
	}
	return &d
}

// dateRange reads from/to and rejects an inverted range.
func (q *queryReader) dateRange() (*time.Time, *time.Time) {
	from, to := q.date("from"), q.date("to")
	if from != nil && to != nil && to.Before(*from) {
		q.fail(common.BadInput("to no puede ser menor que from."))
	}
	return from, to
}

func (q *queryReader) page() common.PageRequest {
	page, err := common.ParsePageRequest(q.raw("page"), q.raw("limit"))
	q.fail(err)
	return page
}

func (q *queryReader) window() common.SkipTake {
	st, err := common.ParseSkipTake(q.raw("skip"), q.raw("take"))
	q.fail(err)
	return st
}

// param reads a required id from the path.
func (q *queryReader) param(c echo.Context, name string) int64 {
	id, err := common.ParseID(name, c.Param(name))
	q.fail(err)
	return id
}
