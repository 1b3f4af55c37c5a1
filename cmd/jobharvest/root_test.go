package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/jobharvest/internal/store"
)

const listing = `<li class="result-card job-result-card" data-id="%[1]s">
<a class="result-card__full-card-link" href="https://www.linkedin.com/jobs/view/%[1]s?trk=x"></a>
<h3>%[2]s</h3><h4>Acme</h4><span class="job-result-card__location">Remote</span>
<time datetime="2020-06-01"></time></li>`

// searchServer serves the given titles on the first page and a 404 after it
func searchServer(t *testing.T, hits *int32, titles map[string]string, order ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Query().Get("start") != "0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var b strings.Builder
		b.WriteString("<html><body><ul>")
		for _, id := range order {
			fmt.Fprintf(&b, listing, id, titles[id])
		}
		b.WriteString("</ul></body></html>")
		w.Write([]byte(b.String()))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf("base_url: %s\nlog:\n  level: error\n  pretty: false\n", baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestDefaultDatabase(t *testing.T) {
	assert.Equal(t, "database-nurse-US.csv", DefaultDatabase("nurse", "US"))
}

func TestRunWritesDefaultDatabase(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	var hits int32
	srv := searchServer(t, &hits, map[string]string{"1": "Nurse", "2": "Charge Nurse"}, "1", "2")
	cfg := writeConfig(t, srv.URL)

	require.NoError(t, execute("-k", "nurse", "-c", "US", "--config", cfg, "--silence", "--no-progress"))

	st, err := store.LoadFile("database-nurse-US.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Len())
	rec, _ := st.Get("1")
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1", rec.URL)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))

	_, err = os.Stat("database-nurse-US.csv.lock")
	assert.True(t, os.IsNotExist(err), "lock file should be removed")
}

func TestRunDeduplicatesAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.csv")

	var hits int32
	first := searchServer(t, &hits, map[string]string{"42": "Nurse"}, "42")
	require.NoError(t, execute("-k", "nurse", "-c", "US", "-d", db, "--config", writeConfig(t, first.URL), "--silence", "--no-progress"))

	second := searchServer(t, &hits, map[string]string{"42": "Renamed", "43": "Welder"}, "42", "43")
	require.NoError(t, execute("--keyword", "nurse", "--country", "US", "--database", db, "--config", writeConfig(t, second.URL), "--silence", "--no-progress"))

	st, err := store.LoadFile(db)
	require.NoError(t, err)
	require.Equal(t, 2, st.Len())
	rec, _ := st.Get("42")
	assert.Equal(t, "Nurse", rec.Title)
	assert.Equal(t, "42", st.Records()[0].ID)
}

func TestRunMirrorsSQLite(t *testing.T) {
	dir := t.TempDir()

	var hits int32
	srv := searchServer(t, &hits, map[string]string{"1": "Nurse"}, "1")
	sqlitePath := filepath.Join(dir, "jobs.db")

	require.NoError(t, execute("-k", "nurse", "-c", "US", "-d", filepath.Join(dir, "jobs.csv"),
		"--sqlite", sqlitePath, "--config", writeConfig(t, srv.URL), "--silence", "--no-progress"))

	_, err := os.Stat(sqlitePath)
	assert.NoError(t, err)
}

func TestRunRejectsBadInvocations(t *testing.T) {
	var hits int32
	srv := searchServer(t, &hits, nil)
	cfg := writeConfig(t, srv.URL)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"missing_country", []string{"-k", "nurse", "--config", cfg}},
		{"missing_keyword", []string{"-c", "US", "--config", cfg}},
		{"unknown_flag", []string{"-k", "nurse", "-c", "US", "--bogus", "--config", cfg}},
		{"positional_args", []string{"-k", "nurse", "-c", "US", "extra", "--config", cfg}},
		{"unwritable_database", []string{"-k", "nurse", "-c", "US", "-d", filepath.Join(dir, "missing", "db.csv"), "--config", cfg, "--silence"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, execute(tt.args...))
		})
	}
	assert.Zero(t, atomic.LoadInt32(&hits), "no request may be sent for a rejected invocation")
}

func TestRunRejectsMalformedDatabase(t *testing.T) {
	var hits int32
	srv := searchServer(t, &hits, nil)
	db := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(db, []byte("not,a,database\n"), 0o644))

	err := execute("-k", "nurse", "-c", "US", "-d", db, "--config", writeConfig(t, srv.URL), "--silence")
	var malformed *store.MalformedInputError
	assert.ErrorAs(t, err, &malformed)
	assert.Zero(t, atomic.LoadInt32(&hits))
}
