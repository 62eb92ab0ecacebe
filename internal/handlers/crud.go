package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"juntacomunal/internal/common"
	"juntacomunal/internal/models"
	"juntacomunal/internal/services"
	"juntacomunal/internal/tenancy"
)

// Lifecycle is the service side of one tenant-scoped resource.
type Lifecycle[E any, C any, U any, F any] interface {
	Create(ctx context.Context, access tenancy.Access, in C) (*E, error)
	List(ctx context.Context, access tenancy.Access, filter F, page common.PageRequest) (common.ListResult[E], error)
	Get(ctx context.Context, access tenancy.Access, id int64) (*E, error)
	Update(ctx context.Context, access tenancy.Access, id int64, in U) (*E, error)
}

type remover[E any] interface {
	Remove(ctx context.Context, access tenancy.Access, id int64) (*E, error)
}

type voider[E any] interface {
	Void(ctx context.Context, access tenancy.Access, id int64, req models.AnularRequest) (*E, error)
}

// ResourceHandlers serves create, list, get, update and remove for one
// resource. Filter reads the list query; Prepare completes a create request
// from the route, as nested resources take their parent id from the path.
type ResourceHandlers[E any, C any, U any, F any] struct {
	service Lifecycle[E, C, U, F]
	filter  func(c echo.Context, q *queryReader) F
	prepare func(c echo.Context, in *C) error
}

func NewResourceHandlers[E any, C any, U any, F any](
	service Lifecycle[E, C, U, F],
	filter func(c echo.Context, q *queryReader) F,
) *ResourceHandlers[E, C, U, F] {
	return &ResourceHandlers[E, C, U, F]{service: service, filter: filter}
}

// resource builds the handlers of a service lifecycle.
func resource[E any, C any, U any, F any](
	service *services.Lifecycle[E, C, U, F],
	filter func(c echo.Context, q *queryReader) F,
) *ResourceHandlers[E, C, U, F] {
	return NewResourceHandlers[E, C, U, F](service, filter)
}

// Nested sets the hook that fills a create request from the path.
func (h *ResourceHandlers[E, C, U, F]) Nested(prepare func(c echo.Context, in *C) error) *ResourceHandlers[E, C, U, F] {
	h.prepare = prepare
	return h
}

func (h *ResourceHandlers[E, C, U, F]) Create(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	var in C
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if h.prepare != nil {
		if err := h.prepare(c, &in); err != nil {
			return err
		}
	}
	created, err := h.service.Create(c.Request().Context(), acc, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *ResourceHandlers[E, C, U, F]) List(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	q := newQuery(c)
	var filter F
	if h.filter != nil {
		filter = h.filter(c, q)
	}
	page := q.page()
	if q.err != nil {
		return q.err
	}
	res, err := h.service.List(c.Request().Context(), acc, filter, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res.Body())
}

func (h *ResourceHandlers[E, C, U, F]) Get(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	row, err := h.service.Get(c.Request().Context(), acc, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}

func (h *ResourceHandlers[E, C, U, F]) Update(c echo.Context) error {
	acc, err := access(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var in U
	if err := bindBody(c, &in); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), acc, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Remove answers with the retired record, or 204 after a hard delete.
func (h *ResourceHandlers[E, C, U, F]) Remove(c echo.Context) error {
	svc, ok := h.service.(remover[E])
	if !ok {
		return echo.ErrMethodNotAllowed
	}
	acc, err := access(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	retired, err := svc.Remove(c.Request().Context(), acc, id)
	if err != nil {
		return err
	}
	if retired == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, retired)
}

// VoidHandler serves POST .../:id/anular.
func VoidHandler[E any](svc voider[E]) echo.HandlerFunc {
	return func(c echo.Context) error {
		acc, err := access(c)
		if err != nil {
			return err
		}
		id, err := pathID(c, "id")
		if err != nil {
			return err
		}
		var req models.AnularRequest
		if err := bindBody(c, &req); err != nil {
			return err
		}
		voided, err := svc.Void(c.Request().Context(), acc, id, req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, voided)
	}
}
