package api

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIScope(t *testing.T) {
	tests := map[string]string{
		"https://plannest.onrender.com":         "/api/",
		"https://plannest.onrender.com/":        "/api/",
		"http://127.0.0.1:8080":                 "/api/",
		"https://example.com/plannest":          "/plannest/api/",
		"https://example.com/plannest/?debug=1": "/plannest/api/",
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			base, err := url.Parse(raw)
			require.NoError(t, err)

			scope := apiScope(base)
			assert.Equal(t, want, scope.Path)
			assert.Equal(t, base.Host, scope.Host)
			assert.Empty(t, scope.RawQuery)
		})
	}
}

func TestCookieStore_SurvivesRestartWithHostOnlyBase(t *testing.T) {
	base, err := url.Parse("https://plannest.onrender.com")
	require.NoError(t, err)
	file := filepath.Join(t.TempDir(), "cookies.json")

	cs, err := newCookieStore(base, file)
	require.NoError(t, err)

	login, err := url.Parse("https://plannest.onrender.com/api/auth/login")
	require.NoError(t, err)
	cs.SetCookies(login, []*http.Cookie{{Name: "token", Value: "abc", Path: "/"}})
	require.NoError(t, cs.save())
	assert.FileExists(t, file)

	restored, err := newCookieStore(base, file)
	require.NoError(t, err)

	todos, err := url.Parse("https://plannest.onrender.com/api/todos")
	require.NoError(t, err)
	cookies := restored.Cookies(todos)
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "abc", cookies[0].Value)

	require.NoError(t, restored.clear())
	assert.NoFileExists(t, file)
}
