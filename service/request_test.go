package service

import (
	"strings"
	"testing"
)

func TestNewRequestValidation(t *testing.T) {
	auth := Auth{Type: "api_key", Key: "key"}

	if _, err := NewRequest("", "find", auth, nil); err == nil {
		t.Fatal("expected error for empty controller")
	}
	if _, err := NewRequest("advertiser/stats", "", auth, nil); err == nil {
		t.Fatal("expected error for empty action")
	}
	if _, err := NewRequest("advertiser/stats", "find", auth, nil); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestRequestSeedsSDKIdentity(t *testing.T) {
	req, err := NewRequest("advertiser/stats", "count", Auth{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	m, err := req.QueryStringMap()
	if err != nil {
		t.Fatal(err)
	}
	if m["sdk"] != SDKName {
		t.Fatalf("sdk = %q, want %q", m["sdk"], SDKName)
	}
	if m["ver"] != SDKVersion {
		t.Fatalf("ver = %q, want %q", m["ver"], SDKVersion)
	}
}

func TestRequestInjectsConfiguredAuth(t *testing.T) {
	req, err := NewRequest("advertiser/stats", "count",
		Auth{Type: "api_key", Key: "secret"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	m, err := req.QueryStringMap()
	if err != nil {
		t.Fatal(err)
	}
	if m["api_key"] != "secret" {
		t.Fatalf("api_key = %q, want secret", m["api_key"])
	}
}

func TestRequestSessionTokenWinsOverAPIKey(t *testing.T) {
	params := map[string]any{
		"session_token": "token-abc",
		"api_key":       "key-def",
	}
	req, err := NewRequest("advertiser/stats", "count",
		Auth{Type: "api_key", Key: "key-def"}, params)
	if err != nil {
		t.Fatal(err)
	}

	qs, err := req.QueryString()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(qs, "session_token=token-abc") {
		t.Fatalf("query string missing session_token: %s", qs)
	}
	if strings.Contains(qs, "api_key") {
		t.Fatalf("query string should omit api_key: %s", qs)
	}

	// the caller's map must not be touched
	if _, ok := params["api_key"]; !ok {
		t.Fatal("caller parameter map was mutated")
	}
}

func TestRequestPathAndURL(t *testing.T) {
	req, err := NewRequest("advertiser/stats/installs", "find",
		Auth{Type: "api_key", Key: "k"},
		map[string]any{"limit": 5})
	if err != nil {
		t.Fatal(err)
	}

	path, err := req.Path()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(path, "/v2/advertiser/stats/installs/find.json?") {
		t.Fatalf("unexpected path: %s", path)
	}
	if !strings.Contains(path, "limit=5") {
		t.Fatalf("path missing limit: %s", path)
	}

	fullURL, err := req.URL()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(fullURL, "https://"+DefaultAPIHost+"/v2/") {
		t.Fatalf("unexpected URL: %s", fullURL)
	}
}

func TestRequestPathWithoutParams(t *testing.T) {
	req, err := NewRequest("advertiser/stats", "count", Auth{}, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	path, err := req.Path()
	if err != nil {
		t.Fatal(err)
	}
	// sdk/ver identity fields are always present
	if !strings.Contains(path, "sdk="+SDKName) {
		t.Fatalf("path missing sdk identity: %s", path)
	}
}
