package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"clarify-api/internal/shared"

	"go.uber.org/zap"
)

func sseServer(t *testing.T, lines []string, sendDone bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed decoding upstream request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintf(w, "data: %s\n\n", line)
			flusher.Flush()
		}
		if sendDone {
			fmt.Fprint(w, "data: [DONE]\n\n")
			flusher.Flush()
		}
	}))
}

func chunkLine(content string) string {
	data, _ := json.Marshal(shared.Response{Choices: []shared.Choice{{Delta: shared.Delta{Content: content}}}})
	return string(data)
}

func TestStream(t *testing.T) {
	srv := sseServer(t, []string{chunkLine("Create "), chunkLine("a "), chunkLine("button")}, true)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", zap.NewNop().Sugar())

	var fragments []string
	full, err := c.Stream(context.Background(), "make a button", func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	want := []string{"Create ", "a ", "button"}
	if !reflect.DeepEqual(fragments, want) {
		t.Errorf("expected fragments %v in arrival order, got %v", want, fragments)
	}
	if full != strings.Join(want, "") {
		t.Errorf("expected full output %q, got %q", strings.Join(want, ""), full)
	}
}

func TestStreamSkipsMalformedAndEmptyDeltas(t *testing.T) {
	srv := sseServer(t, []string{"{not json", chunkLine(""), chunkLine("ok")}, true)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", zap.NewNop().Sugar())

	var fragments []string
	full, err := c.Stream(context.Background(), "p", func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(fragments) != 1 || full != "ok" {
		t.Errorf("expected single fragment %q, got %v", "ok", fragments)
	}
}

func TestStreamWithoutDoneMarker(t *testing.T) {
	srv := sseServer(t, []string{chunkLine("partial")}, false)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", zap.NewNop().Sugar())

	var fragments []string
	full, err := c.Stream(context.Background(), "p", func(fragment string) error {
		fragments = append(fragments, fragment)
		return nil
	})
	if !errors.Is(err, ErrIncompleteStream) {
		t.Fatalf("expected ErrIncompleteStream, got %v", err)
	}
	if full != "partial" || len(fragments) != 1 {
		t.Errorf("expected delivered fragments to be reported, got %q", full)
	}
}

func TestStreamFragmentDeliveryFailure(t *testing.T) {
	srv := sseServer(t, []string{chunkLine("a"), chunkLine("b"), chunkLine("c")}, true)
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", zap.NewNop().Sugar())

	delivered := 0
	_, err := c.Stream(context.Background(), "p", func(fragment string) error {
		delivered++
		if delivered == 2 {
			return errors.New("client went away")
		}
		return nil
	})
	if err == nil {
		t.Fatal("expected delivery failure to abort the stream")
	}
	if delivered != 2 {
		t.Errorf("expected 2 delivery attempts, got %d", delivered)
	}
}

func TestStreamUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-model", "", zap.NewNop().Sugar())
	if _, err := c.Stream(context.Background(), "p", func(string) error { return nil }); err == nil {
		t.Fatal("expected error on non-200 upstream response")
	}
}
