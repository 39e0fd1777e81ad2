package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocalc/pkg/avatars"
)

func TestDownloadFromGitHub(t *testing.T) {
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/contributors", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode([]avatars.Contributor{
			{Login: "alice", AvatarURL: srv.URL + "/a/alice.png"},
			{Login: "bob", AvatarURL: srv.URL + "/a/bob.png"},
			{Login: "dependabot[bot]", AvatarURL: srv.URL + "/a/dep.png"},
		})
	})
	mux.HandleFunc("/a/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png"))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "faces")
	env := func(k string) string {
		if k == "GITHUB_TOKEN" {
			return "tok"
		}
		return ""
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-api", srv.URL, "-repo", "octo/demo", "-out", out, "-workers", "2"}, &stdout, &stderr, env)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Downloaded 2 new avatars to "+out+"/\nTotal contributors: 3\n", stdout.String())

	data, err := os.ReadFile(filepath.Join(out, "alice.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))

	stdout.Reset()
	code = run(context.Background(), []string{"-api", srv.URL, "-repo", "octo/demo", "-out", out}, &stdout, &stderr, env)
	require.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Downloaded 0 new avatars")
}

func TestInvalidFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-workers", "0"}, &stdout, &stderr, func(string) string { return "" })
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "avatars.workers")

	stderr.Reset()
	code = run(context.Background(), []string{"-source", "svn"}, &stdout, &stderr, func(string) string { return "" })
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "avatars.source")
}
