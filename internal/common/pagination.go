package common

import (
	"strconv"
	"strings"
)

const (
	MaxPageLimit    = 100
	DefaultTake     = 20
	maxOffsetWindow = 1_000_000
)

// PageRequest is the page/limit pair of a list query. Pagination applies only
// when both were sent; each one is validated whenever it is present.
type PageRequest struct {
	Page  int
	Limit int
	set   bool
	skip  *int
}

func ParsePageRequest(page, limit string) (PageRequest, error) {
	var req PageRequest
	page, limit = strings.TrimSpace(page), strings.TrimSpace(limit)

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return PageRequest{}, BadInput("page debe ser un entero mayor o igual a 1.")
		}
		req.Page = n
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > MaxPageLimit {
			return PageRequest{}, BadInput("limit debe ser un entero entre 1 y %d.", MaxPageLimit)
		}
		req.Limit = n
	}
	req.set = page != "" && limit != ""
	if req.set && req.Page-1 > maxOffsetWindow/req.Limit {
		return PageRequest{}, BadInput("page fuera de rango.")
	}
	return req, nil
}

func NewPageRequest(page, limit int) PageRequest {
	return PageRequest{Page: page, Limit: limit, set: true}
}

func (p PageRequest) Paginated() bool { return p.set }

// Counted reports whether the caller expects a total alongside the items.
func (p PageRequest) Counted() bool { return p.set && p.skip == nil }

func (p PageRequest) Offset() int {
	if p.skip != nil {
		return *p.skip
	}
	return (p.Page - 1) * p.Limit
}

// Page is the paginated response body.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// ListResult carries a list query outcome; Body picks the response shape.
type ListResult[T any] struct {
	Items []T
	Total int64
	Page  PageRequest
}

func (r ListResult[T]) Body() any {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	if !r.Page.Paginated() {
		return items
	}
	return Page[T]{Items: items, Total: r.Total, Page: r.Page.Page, Limit: r.Page.Limit}
}

// SkipTake is the offset window used by the platform listings.
type SkipTake struct {
	Skip int
	Take int
}

func ParseSkipTake(skip, take string) (SkipTake, error) {
	st := SkipTake{Skip: 0, Take: DefaultTake}
	if s := strings.TrimSpace(skip); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return SkipTake{}, BadInput("skip debe ser un entero mayor o igual a 0.")
		}
		st.Skip = n
	}
	if t := strings.TrimSpace(take); t != "" {
		n, err := strconv.Atoi(t)
		if err != nil || n < 1 || n > MaxPageLimit {
			return SkipTake{}, BadInput("take debe ser un entero entre 1 y %d.", MaxPageLimit)
		}
		st.Take = n
	}
	return st, nil
}

// PageRequest windows a listing by skip/take without counting the total.
func (st SkipTake) PageRequest() PageRequest {
	skip := st.Skip
	return PageRequest{Limit: st.Take, set: true, skip: &skip}
}
