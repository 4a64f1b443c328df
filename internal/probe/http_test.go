package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestContentTypeUsesHead(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Header().Set("Content-Type", "image/PNG; charset=binary")
	}))
	defer server.Close()

	got, err := NewHTTPProber(WithClient(server.Client())).ContentType(context.Background(), server.URL+"/a.png")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if method != http.MethodHead {
		t.Fatalf("expected HEAD, got %s", method)
	}
	if got != "image/png" {
		t.Fatalf("expected image/png, got %q", got)
	}
}

func TestContentTypeRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewHTTPProber().ContentType(context.Background(), server.URL)
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestContentTypeTimesOut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewHTTPProber(WithTimeout(50*time.Millisecond)).ContentType(context.Background(), server.URL)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}
