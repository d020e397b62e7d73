package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

// testContext returns a context bounded well under the client timeout.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// doGet sends a GET request with the given extra headers.
func doGet(t *testing.T, path string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, env.baseURL+path, nil)
	if err != nil {
		t.Fatalf("create GET request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	resp, err := env.httpClient.Do(req)
	if err != nil {
		t.Fatalf("execute GET request: %v", err)
	}
	t.Logf("GET %s -> %d", path, resp.StatusCode)
	return resp
}

// doPostRaw sends body verbatim as JSON.
func doPostRaw(t *testing.T, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, env.baseURL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("create POST request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := env.httpClient.Do(req)
	if err != nil {
		t.Fatalf("execute POST request: %v", err)
	}
	t.Logf("POST %s -> %d", path, resp.StatusCode)
	return resp
}

// decodeJSON reads and closes resp.Body into a generic map.
func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	data := readBody(t, resp)
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		t.Fatalf("decode body %q: %v", data, err)
	}
	return out
}

// readBody reads and closes resp.Body.
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

//Personal.AI order the ending
