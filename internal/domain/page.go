package domain

import (
	"errors"
	"strconv"
)

// DefaultPageSize is the number of items per listing page.
const DefaultPageSize = 10

// Page describes one page of a listing. Number is 1-based.
type Page struct {
	Number     int `json:"number"`
	Size       int `json:"size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Offset is the number of items preceding the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// HasNext reports whether a later page exists.
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// HasPrevious reports whether an earlier page exists.
func (p Page) HasPrevious() bool { return p.Number > 1 }

// ResolvePage turns a raw page token into a concrete page.
//
// A missing or non-numeric token yields page 1. A number outside 1..TotalPages,
// including one too large for an int, yields the last page. An empty listing
// still has one page.
func ResolvePage(token string, totalItems, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if totalItems < 0 {
		totalItems = 0
	}
	pages := (totalItems + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	p := Page{Number: 1, Size: size, TotalItems: totalItems, TotalPages: pages}

	n, err := strconv.Atoi(token)
	if errors.Is(err, strconv.ErrRange) {
		p.Number = pages
		return p
	}
	if err != nil {
		return p
	}
	if n < 1 || n > pages {
		p.Number = pages
		return p
	}
	p.Number = n
	return p
}
