package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds 1-indexed page parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// New returns params with out-of-range values replaced: a page below 1
// becomes 1, a non-positive size becomes defaultSize, and sizes above
// MaxPageSize are capped.
func New(page, pageSize, defaultSize int) Params {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page < 1 {
		page = 1
	}
	return Params{Page: page, PageSize: pageSize}
}

// FromContext extracts page and page_size (or pageSize) from the query string.
func FromContext(c echo.Context, defaultSize int) Params {
	page, _ := strconv.Atoi(c.QueryParam("page"))

	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size <= 0 {
		size, _ = strconv.Atoi(c.QueryParam("pageSize"))
	}

	return New(page, size, defaultSize)
}

// TotalPages returns ceil(total/pageSize); zero when there is nothing to show.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp moves the page into [1, max(TotalPages, 1)].
func (p Params) Clamp(total int) Params {
	last := TotalPages(total, p.PageSize)
	if last < 1 {
		last = 1
	}
	if p.Page > last {
		p.Page = last
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Bounds returns the half-open slice [start, end) of a sequence of length
// total that the current page covers.
func (p Params) Bounds(total int) (start, end int) {
	start = (p.Page - 1) * p.PageSize
	if start > total {
		start = total
	}
	if start < 0 {
		start = 0
	}
	end = start + p.PageSize
	if end > total {
		end = total
	}
	return start, end
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Page < TotalPages(total, p.PageSize)
}

// HasPrevious returns true if there is a page before the current one.
func (p Params) HasPrevious() bool {
	return p.Page > 1
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
	HasNext    bool        `json:"has_next"`
	HasPrev    bool        `json:"has_prev"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	return &Response{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: TotalPages(total, p.PageSize),
		HasNext:    p.HasNext(total),
		HasPrev:    p.HasPrevious(),
	}
}
