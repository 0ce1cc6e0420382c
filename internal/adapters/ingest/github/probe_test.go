package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	perr "licorice/internal/platform/errors"
)

func TestParseRepo(t *testing.T) {
	cases := []struct {
		in      string
		want    Repo
		wantErr bool
	}{
		{in: "octocat/hello", want: Repo{Owner: "octocat", Name: "hello"}},
		{in: "octocat/hello@v1.2", want: Repo{Owner: "octocat", Name: "hello", Ref: "v1.2"}},
		{in: "github.com/octocat/hello", want: Repo{Owner: "octocat", Name: "hello"}},
		{in: "https://github.com/octocat/hello", want: Repo{Owner: "octocat", Name: "hello"}},
		{in: "https://github.com/octocat/hello.git", want: Repo{Owner: "octocat", Name: "hello"}},
		{in: "", wantErr: true},
		{in: "justaname", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseRepo(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRepo(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepo(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRepo(%q) = %+v want %+v", tc.in, got, tc.want)
		}
	}
}

func TestFindLicenseWalksMatrixInOrder(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Path)
		if r.URL.Path == "/octocat/hello/HEAD/COPYING" {
			_, _ = w.Write([]byte("gpl text"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewProbe(NewClient(Options{BaseURL: srv.URL}))
	f, err := p.FindLicense(context.Background(), Repo{Owner: "octocat", Name: "hello"})
	if err != nil {
		t.Fatalf("FindLicense: %v", err)
	}
	if f.Name != "COPYING" || f.Content != "gpl text" {
		t.Fatalf("got %+v", f)
	}

	// LICENSE, LICENSE.md, LICENSE.txt, LICENCE x3 come before COPYING
	if len(seen) != 7 {
		t.Fatalf("probed %d paths, want 7: %v", len(seen), seen)
	}
	if seen[0] != "/octocat/hello/HEAD/LICENSE" {
		t.Fatalf("first probe was %q", seen[0])
	}
}

func TestFindLicenseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	p := NewProbe(NewClient(Options{BaseURL: srv.URL}))
	_, err := p.FindLicense(context.Background(), Repo{Owner: "a", Name: "b"})
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want NotFound, got %v", err)
	}
}

func TestFetchRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("mit text"))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, RetryBase: time.Millisecond})
	c.sleep = func(time.Duration) {}

	body, found, err := c.fetch(context.Background(), "/a/b/HEAD/LICENSE")
	if err != nil || !found {
		t.Fatalf("fetch: found=%v err=%v", found, err)
	}
	if string(body) != "mit text" {
		t.Fatalf("body = %q", body)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d", calls.Load())
	}
}

func TestFetchHonorsMaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, MaxBytes: 100})
	body, found, err := c.fetch(context.Background(), "/a/b/HEAD/LICENSE")
	if err != nil || !found {
		t.Fatalf("fetch: found=%v err=%v", found, err)
	}
	if len(body) != 100 {
		t.Fatalf("len(body) = %d", len(body))
	}
}
