package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/fr4nk3nst1ner/jobharvest/internal/models"
)

// Load reads a database in CSV form. The header row must name every record
// column exactly once, in any order. Rows repeating an earlier ID are skipped.
func Load(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(models.Header)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, malformedRow(err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	s := New()
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformedRow(err)
		}

		line, _ := reader.FieldPos(0)
		rec := models.Record{
			ID:              row[index[models.ColumnID]],
			Title:           row[index[models.ColumnTitle]],
			URL:             row[index[models.ColumnURL]],
			CompanyName:     row[index[models.ColumnCompanyName]],
			CompanyLocation: row[index[models.ColumnCompanyLocation]],
			DatePosted:      row[index[models.ColumnDatePosted]],
		}
		if !models.ValidID(rec.ID) {
			return nil, &MalformedInputError{Line: line, Reason: fmt.Sprintf("invalid job id %q", rec.ID)}
		}
		s.Merge(rec.ID, rec)
	}

	return s, nil
}

// LoadFile reads the database stored at path
func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return Load(f)
}

// Open loads the database at path, or returns an empty store if the file
// does not exist yet
func Open(path string) (*Store, error) {
	s, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	return s, err
}

// Persist writes the header followed by every record in insertion order
func (s *Store) Persist(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.Header); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	for _, rec := range s.Records() {
		if err := writer.Write(rec.Row()); err != nil {
			return &IOError{Op: "write", Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// PersistFile writes the store to path, replacing any existing file
func (s *Store) PersistFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}

	if err := s.Persist(f); err != nil {
		f.Close()
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return err
	}

	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// columnIndex maps each record column to its position in header
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, &MalformedInputError{Line: 1, Reason: fmt.Sprintf("duplicate column %q", name)}
		}
		index[name] = i
	}
	for _, name := range models.Header {
		if _, ok := index[name]; !ok {
			return nil, &MalformedInputError{Line: 1, Reason: fmt.Sprintf("missing column %q", name)}
		}
	}
	return index, nil
}

// malformedRow converts a csv parse error into a MalformedInputError
func malformedRow(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Line: parseErr.Line, Reason: "unreadable row", Err: parseErr.Err}
	}
	return &MalformedInputError{Reason: "unreadable row", Err: err}
}
