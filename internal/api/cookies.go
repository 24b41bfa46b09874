package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/net/publicsuffix"
)

// storedCookie is the on-disk form of a session cookie.
// The jar only exposes name and value, so that is all that survives a restart.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// cookieStore is an http.CookieJar kept in sync with a file, standing in for
// the browser's cookie storage between invocations.
type cookieStore struct {
	jar   *cookiejar.Jar
	scope *url.URL
	path  string
}

func newCookieStore(base *url.URL, file string) (*cookieStore, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	cs := &cookieStore{
		jar:   jar,
		scope: apiScope(base),
		path:  file,
	}
	if err := cs.load(); err != nil {
		return nil, err
	}
	return cs, nil
}

// apiScope is the URL the API cookies are stored and looked up under.
// JoinPath leaves a host-only base unrooted ("api"), which the jar never matches.
func apiScope(base *url.URL) *url.URL {
	scope := *base
	scope.Path = path.Join("/", base.Path, "api") + "/"
	scope.RawPath = ""
	scope.RawQuery = ""
	scope.Fragment = ""
	return &scope
}

// SetCookies implements http.CookieJar.
func (cs *cookieStore) SetCookies(u *url.URL, cookies []*http.Cookie) {
	cs.jar.SetCookies(u, cookies)
}

// Cookies implements http.CookieJar.
func (cs *cookieStore) Cookies(u *url.URL) []*http.Cookie {
	return cs.jar.Cookies(u)
}

func (cs *cookieStore) load() error {
	if cs.path == "" {
		return nil
	}
	data, err := os.ReadFile(cs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("invalid %s: %w", filepath.Base(cs.path), err)
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, sc := range stored {
		cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
	}
	cs.jar.SetCookies(cs.scope, cookies)
	return nil
}

// save writes the cookies the API would receive. An empty jar removes the file
// so that its presence tracks whether a session exists.
func (cs *cookieStore) save() error {
	if cs.path == "" {
		return nil
	}
	cookies := cs.jar.Cookies(cs.scope)
	if len(cookies) == 0 {
		if err := os.Remove(cs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cs.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(cs.path, data, 0600)
}

// clear drops every cookie for the API origin.
func (cs *cookieStore) clear() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return err
	}
	cs.jar = jar
	return cs.save()
}
