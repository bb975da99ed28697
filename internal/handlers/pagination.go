package handlers

import (
	"net/http"
	"strconv"

	"microblog/internal/models"
)

const pageSize = 10

// Page is one slice of a listing. An out-of-range request clamps to the
// nearest valid page instead of erroring; an empty listing still has one
// (empty) page.
type Page struct {
	Number   int
	NumPages int
	Count    int
	Posts    []models.Post
}

func newPage(number, count int) Page {
	numPages := (count + pageSize - 1) / pageSize
	if numPages < 1 {
		numPages = 1
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}
	return Page{Number: number, NumPages: numPages, Count: count}
}

func (p Page) Offset() int   { return (p.Number - 1) * pageSize }
func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.NumPages }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// pageNumber reads ?page=; anything that is not a number means page 1.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return n
}
