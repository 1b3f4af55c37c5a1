package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"42", true},
		{"1834772093", true},
		{"urn:li:job:99", true},
		{"", false},
		{" 42", false},
		{"4 2", false},
		{"42\n", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidID(tt.id), "ValidID(%q)", tt.id)
	}
}

func TestCursorAdvance(t *testing.T) {
	c := Cursor{Keyword: "nurse", LocationToken: "US"}
	c.Advance()
	c.Advance()
	assert.Equal(t, 50, c.Offset)
}

func TestRecordRowMatchesHeader(t *testing.T) {
	r := Record{
		ID:              "1",
		Title:           "t",
		URL:             "u",
		CompanyName:     "c",
		CompanyLocation: "l",
		DatePosted:      "d",
	}
	assert.Len(t, r.Row(), len(Header))
	assert.Equal(t, []string{"1", "t", "u", "c", "l", "d"}, r.Row())
}
