package updates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/orbit-updates/orbit/internal/httputil"
	"github.com/orbit-updates/orbit/internal/log"
	"github.com/orbit-updates/orbit/internal/settings"
)

func testOptions(t *testing.T) EvaluateOptions {
	return EvaluateOptions{
		Build:      mustNumber(t, "145.100"),
		Preference: settings.StatusRelease,
	}
}

func TestCheckSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDescriptor))
	}))
	defer server.Close()

	checker := NewChecker(server.URL, server.Client(), log.NewNoop())
	result := checker.Check(context.Background(), testOptions(t))

	if result.State != Loaded {
		t.Fatalf("state = %v, want Loaded (err: %v)", result.State, result.Err)
	}
	if result.UpdatedChannel == nil || result.UpdatedChannel.ID != "stable" {
		t.Errorf("expected stable update, got %+v", result.UpdatedChannel)
	}
}

func TestCheckRetriesTransientServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(sampleDescriptor))
	}))
	defer server.Close()

	checker := NewChecker(server.URL, server.Client(), log.NewNoop())
	result := checker.Check(context.Background(), testOptions(t))

	if result.State != Loaded {
		t.Fatalf("state = %v after retries, want Loaded (err: %v)", result.State, result.Err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
}

func TestCheckNotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewChecker(server.URL, server.Client(), log.NewNoop())
	result := checker.Check(context.Background(), testOptions(t))

	if result.State != ConnectionError {
		t.Fatalf("state = %v, want ConnectionError", result.State)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("404 must not be retried, got %d calls", got)
	}
}

func TestCheckConnectionErrorPreservesCause(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // connection refused from here on

	checker := NewChecker(url, nil, log.NewNoop())
	result := checker.Check(context.Background(), testOptions(t))

	if result.State != ConnectionError {
		t.Fatalf("state = %v, want ConnectionError", result.State)
	}
	var checkErr *CheckError
	if !errors.As(result.Err, &checkErr) {
		t.Fatalf("Err = %T, want *CheckError", result.Err)
	}
	if checkErr.Err == nil {
		t.Error("original error must be preserved for logging")
	}
	if checkErr.Suggestion() == "" {
		t.Error("connection failures should carry a suggestion")
	}
}

func TestCheckMalformedDescriptor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not xml at all <<<"))
	}))
	defer server.Close()

	checker := NewChecker(server.URL, server.Client(), log.NewNoop())
	result := checker.Check(context.Background(), testOptions(t))

	if result.State != ConnectionError {
		t.Fatalf("state = %v, want ConnectionError", result.State)
	}
	var checkErr *CheckError
	if !errors.As(result.Err, &checkErr) || checkErr.Kind != httputil.KindParsing {
		t.Errorf("expected a parsing-kind CheckError, got %v", result.Err)
	}
}

func TestCheckHonorsCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError) // would retry forever
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := NewChecker(server.URL, server.Client(), log.NewNoop())
	result := checker.Check(ctx, testOptions(t))

	if result.State != ConnectionError {
		t.Fatalf("state = %v, want ConnectionError on cancellation", result.State)
	}
}
