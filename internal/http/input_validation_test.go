package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestSearchInputValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// blank query renders the empty search page
	resp, err := app.Test(httptest.NewRequest("GET", "/search", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("blank search: want 200, got %d", resp.StatusCode)
	}

	// hostile characters are rejected, not echoed
	resp, err = app.Test(httptest.NewRequest("GET", "/search?q="+url.QueryEscape("<script>alert(1)</script>"), nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("script query: want 400, got %d", resp.StatusCode)
	}
	if body := bodyOf(t, resp); strings.Contains(body, "<script>alert") {
		t.Fatalf("raw query echoed into page: %s", body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/search?q=watch", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("valid search: want 200, got %d", resp.StatusCode)
	}
	if body := bodyOf(t, resp); !strings.Contains(body, "Field Watch") {
		t.Fatalf("search result missing: %s", body)
	}
}

func TestAvailabilityAPI(t *testing.T) {
	app, _ := newTestApp(t)

	// missing productId
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/availability", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 without productId, got %d", resp.StatusCode)
	}

	// path traversal shaped ids are rejected
	resp, _ = app.Test(httptest.NewRequest("GET", "/api/v1/availability?productId="+url.QueryEscape("../etc/passwd"), nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for hostile id, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/availability?productId=watch-001", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out struct {
		Status string `json:"status"`
		Qty    int    `json:"qty"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	// watch-001 seeds with exactly 5, the IN_STOCK threshold
	if out.Status != "IN_STOCK" || out.Qty != 5 {
		t.Fatalf("bad availability payload: %+v", out)
	}
}

func TestCheckoutFormValidation(t *testing.T) {
	app, _ := newTestApp(t)
	s := newSession(t, app)

	if resp := s.postForm("/cart", url.Values{"productId": {"tote-001"}, "qty": {"1"}}); resp.StatusCode != http.StatusFound {
		t.Fatalf("cart add failed: %d", resp.StatusCode)
	}

	form := url.Values{
		"name":    {"Tester"},
		"email":   {"not-an-email"},
		"phone":   {"+1 301 555 0100"},
		"address": {"123 Campus Dr, College Park MD"},
	}
	if resp := s.postForm("/orders", form); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad email should 400, got %d", resp.StatusCode)
	}

	form.Set("email", "t@e.com")
	form.Set("phone", "nope")
	if resp := s.postForm("/orders", form); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad phone should 400, got %d", resp.StatusCode)
	}

	form.Set("phone", "+1 301 555 0100")
	resp := s.postForm("/orders", form)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("valid checkout should redirect, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/order/") {
		t.Fatalf("unexpected redirect target %q", loc)
	}
}
