package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type echoResponse struct {
	Message string `json:"message"`
}

func TestDoPostSync_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", request.Method)
		}
		if got := request.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := request.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"message": "ok"}`)
	}))
	defer server.Close()

	httpResponse, parsed, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "secret", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("DoPostSync returned error: %v", err)
	}
	if httpResponse.StatusCode != http.StatusOK {
		t.Errorf("status = %d", httpResponse.StatusCode)
	}
	if parsed == nil || parsed.Message != "ok" {
		t.Errorf("parsed = %+v", parsed)
	}
}

func TestDoPostSync_NoAuthHeaderWithoutKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want unset", got)
		}
		fmt.Fprint(writer, `{"message": "ok"}`)
	}))
	defer server.Close()

	if _, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "", nil); err != nil {
		t.Fatalf("DoPostSync returned error: %v", err)
	}
}

func TestDoPostSync_Non2xxIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(writer, `{"error": "bad key"}`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "key", nil)
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("error missing status or body: %v", err)
	}
}

func TestDoPostSync_InvalidResponseJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		fmt.Fprint(writer, `not json`)
	}))
	defer server.Close()

	_, _, err := DoPostSync[echoResponse](context.Background(), server.Client(), server.URL, "key", nil)
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
	if !strings.Contains(err.Error(), "Response preview") {
		t.Errorf("error missing response preview: %v", err)
	}
}

func TestDoPostSync_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		<-request.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := DoPostSync[echoResponse](ctx, server.Client(), server.URL, "key", nil); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
