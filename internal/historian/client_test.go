package historian

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestClientReadBatch(t *testing.T) {
	var gotPath, gotAuth string
	var gotTags []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var req batchReadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotTags = req.Tags
		_ = json.NewEncoder(w).Encode(batchReadResponse{Values: map[string]any{
			"Line1.Temp.PV":    95.2,
			"Line1.Temp.H_EVT": true,
		}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "token-1")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	values, err := client.ReadBatch(context.Background(), []string{"Line1.Temp.H_EVT", "Line1.Temp.PV"})
	if err != nil {
		t.Fatalf("read batch: %v", err)
	}

	if gotPath != "/api/v1/values/read" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if !reflect.DeepEqual(gotTags, []string{"Line1.Temp.H_EVT", "Line1.Temp.PV"}) {
		t.Fatalf("unexpected tags %v", gotTags)
	}
	if values["Line1.Temp.PV"] != 95.2 {
		t.Fatalf("unexpected pv value %v", values["Line1.Temp.PV"])
	}
	if values["Line1.Temp.H_EVT"] != true {
		t.Fatalf("unexpected event value %v", values["Line1.Temp.H_EVT"])
	}
}

func TestClientReadBatchFailsOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ReadBatch(context.Background(), []string{"Line1.Temp.PV"}); err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
}

func TestClientReadBatchSkipsEmptyRequest(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	values, err := client.ReadBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("read batch: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("expected empty result, got %v", values)
	}
	if calls != 0 {
		t.Fatalf("expected no request for empty address set")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
