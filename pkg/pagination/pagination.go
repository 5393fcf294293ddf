package pagination

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Params carries offset-style pagination extracted from a request.
type Params struct {
	Page int
	Size int
}

// FromRequest reads page/size query parameters, clamping to sane bounds.
func FromRequest(r *http.Request) Params {
	return Normalize(
		atoiDefault(r.URL.Query().Get("page"), DefaultPage),
		atoiDefault(r.URL.Query().Get("size"), DefaultSize),
	)
}

// Normalize clamps raw page/size values.
func Normalize(page, size int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Params{Page: page, Size: size}
}

// Offset returns the row offset for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// TotalPages computes the page count for a total row count.
func (p Params) TotalPages(total int64) int {
	if total <= 0 {
		return 0
	}
	pages := int(total) / p.Size
	if int(total)%p.Size != 0 {
		pages++
	}
	return pages
}

// Last reports whether the current page is the final one.
func (p Params) Last(total int64) bool {
	return p.Page >= p.TotalPages(total)
}

func atoiDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
