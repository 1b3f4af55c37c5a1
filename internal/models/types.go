package models

import (
	"strings"
	"unicode"
)

// PageSize is the number of listings the search endpoint returns per page
const PageSize = 25

// Column names of the persisted database, in file order
const (
	ColumnID              = "Job ID"
	ColumnTitle           = "Title"
	ColumnURL             = "URL"
	ColumnCompanyName     = "Company Name"
	ColumnCompanyLocation = "Company Location"
	ColumnDatePosted      = "Date Posted"
)

// Header is the header row of the persisted database
var Header = []string{
	ColumnID,
	ColumnTitle,
	ColumnURL,
	ColumnCompanyName,
	ColumnCompanyLocation,
	ColumnDatePosted,
}

// Record represents one job listing
type Record struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	URL             string `json:"url"`
	CompanyName     string `json:"company_name"`
	CompanyLocation string `json:"company_location"`
	DatePosted      string `json:"date_posted"`
}

// Row returns the record's fields in Header order
func (r Record) Row() []string {
	return []string{r.ID, r.Title, r.URL, r.CompanyName, r.CompanyLocation, r.DatePosted}
}

// Cursor is the pagination state of a single crawl. It is never persisted.
type Cursor struct {
	Keyword       string
	LocationToken string
	Offset        int
}

// Advance moves the cursor to the next result page
func (c *Cursor) Advance() {
	c.Offset += PageSize
}

// ValidID reports whether id can be used as a record key.
// Keys must survive a round trip through the database file, so blanks,
// whitespace and control characters are rejected.
func ValidID(id string) bool {
	if id == "" {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) < 0
}
