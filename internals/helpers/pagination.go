package helper

import (
	"strconv"
	"strings"
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"` // items on this page
}

// TotalPages is ceil(total/perPage) but never less than 1, so an empty list
// still has a first page.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		perPage = 1
	}
	n := int((total + int64(perPage) - 1) / int64(perPage))
	if n < 1 {
		n = 1
	}
	return n
}

// ClampPage turns the raw ?page= value into a valid page number: anything
// that is not a positive integer is page 1, anything past the end is the
// last page.
func ClampPage(raw string, total int64, perPage int) int {
	last := TotalPages(total, perPage)
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

func BuildPaginationFromPage(total int64, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 1
	}
	if page <= 0 {
		page = 1
	}
	totalPages := TotalPages(total, perPage)
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Offset of the first row of page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PerPage
}
