package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aymanking75/infultools/pkg/history"
	"github.com/Aymanking75/infultools/pkg/identity"
)

type stubDispatcher struct {
	text     string
	imageURI string
	imageErr error
}

func (d *stubDispatcher) GenerateText(context.Context, string, string) string {
	return d.text
}

func (d *stubDispatcher) GenerateImage(context.Context, string) (string, error) {
	return d.imageURI, d.imageErr
}

func newTestServer(d *stubDispatcher, opts ...Option) *httptest.Server {
	return httptest.NewServer(New(d, opts...).Handler())
}

func get(t *testing.T, url, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func post(t *testing.T, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestListTools(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, body := get(t, srv.URL+"/v1/tools", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	list, ok := body["tools"].([]any)
	if !ok || len(list) != 8 {
		t.Fatalf("tools=%v, want 8 entries", body["tools"])
	}
}

func TestGenerate_TextTool(t *testing.T) {
	provider := identity.NewMemoryProvider(identity.User{ID: "u1"})
	sink := history.NewMemorySink()
	srv := newTestServer(&stubDispatcher{text: "نتيجة"}, WithIdentity(provider), WithHistory(sink))
	defer srv.Close()

	resp, body := post(t, srv.URL+"/v1/tools/optimizer/generate", "u1", `{"input":"روتين صباحي"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if body["state"] != "success" || body["text"] != "نتيجة" {
		t.Fatalf("body=%v", body)
	}

	recs, _ := sink.ListByUser(context.Background(), "u1", 0)
	if len(recs) != 1 {
		t.Fatalf("history=%d, want 1", len(recs))
	}
}

func TestGenerate_BlankInput(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/v1/tools/image/generate", "", `{"input":"  "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestGenerate_UnknownTool(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/v1/tools/nonsense/generate", "", `{"input":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", resp.StatusCode)
	}
}

func TestGenerate_ImageFailure(t *testing.T) {
	srv := newTestServer(&stubDispatcher{imageErr: errors.New("backend down")})
	defer srv.Close()

	resp, body := post(t, srv.URL+"/v1/tools/image/generate", "", `{"input":"قط"}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status=%d, want 502", resp.StatusCode)
	}
	if body["state"] != "failure" {
		t.Fatalf("body=%v", body)
	}
}

func TestGenerate_AnonymousSkipsHistory(t *testing.T) {
	sink := history.NewMemorySink()
	srv := newTestServer(&stubDispatcher{text: "ok"}, WithHistory(sink))
	defer srv.Close()

	// Token that resolves to no user is treated as signed out.
	resp, _ := post(t, srv.URL+"/v1/tools/ideas/generate", "ghost", `{"input":"أفكار"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	recs, _ := sink.ListByUser(context.Background(), "ghost", 0)
	if len(recs) != 0 {
		t.Fatalf("unknown tokens must not produce history")
	}
}

func TestHistory_RequiresIdentity(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, _ := get(t, srv.URL+"/v1/history", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", resp.StatusCode)
	}
}

func TestHistory_ReturnsUserRecords(t *testing.T) {
	provider := identity.NewMemoryProvider(identity.User{ID: "u1"})
	sink := history.NewMemorySink()
	_ = sink.Append(context.Background(), &history.Record{
		UserID: "u1", ToolID: "script", Input: "in", Output: "out", Type: history.TypeText,
	})
	srv := newTestServer(&stubDispatcher{}, WithIdentity(provider), WithHistory(sink))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/v1/history", "u1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	list, ok := body["history"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("history=%v", body["history"])
	}
	first := list[0].(map[string]any)
	if first["toolId"] != "script" || first["type"] != "text" {
		t.Fatalf("record=%v", first)
	}
	createdAt, _ := first["createdAt"].(string)
	if _, err := time.Parse(time.RFC3339, createdAt); err != nil {
		t.Fatalf("createdAt=%q not RFC3339: %v", createdAt, err)
	}
}

func TestPlans(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, body := get(t, srv.URL+"/v1/plans", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	list, ok := body["plans"].([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("plans=%v", body["plans"])
	}
}

type stubCheckout struct {
	url string
	err error
}

func (c stubCheckout) CreateSession(context.Context, string, string) (string, error) {
	return c.url, c.err
}

func TestCheckout(t *testing.T) {
	provider := identity.NewMemoryProvider(identity.User{ID: "u1"})
	srv := newTestServer(&stubDispatcher{},
		WithIdentity(provider),
		WithCheckout(stubCheckout{url: "https://pay.example/session"}),
	)
	defer srv.Close()

	resp, body := post(t, srv.URL+"/v1/billing/checkout", "u1", `{"plan":"pro"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if body["url"] != "https://pay.example/session" {
		t.Fatalf("body=%v", body)
	}
}

func TestCheckout_Unconfigured(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/v1/billing/checkout", "", `{"plan":"pro"}`)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("status=%d, want 501", resp.StatusCode)
	}
}

func TestCheckout_RequiresIdentity(t *testing.T) {
	srv := newTestServer(&stubDispatcher{}, WithCheckout(stubCheckout{url: "x"}))
	defer srv.Close()

	resp, _ := post(t, srv.URL+"/v1/billing/checkout", "", `{"plan":"pro"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubDispatcher{})
	defer srv.Close()

	resp, body := get(t, srv.URL+"/healthz", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
}
