package update

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// setupTestServer creates a test server and overrides ReleasesURL.
// Returns a cleanup function that restores the original URL.
func setupTestServer(handler http.HandlerFunc) (*httptest.Server, func()) {
	server := httptest.NewServer(handler)
	originalURL := ReleasesURL
	ReleasesURL = server.URL
	cleanup := func() {
		server.Close()
		ReleasesURL = originalURL
	}
	return server, cleanup
}

func releaseHandler(tag string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Release{
			TagName: tag,
			HTMLURL: "https://github.com/jefftune/tune-reporting-go/releases/tag/" + tag,
		})
	}
}

func TestCheckForUpdate_DevVersion(t *testing.T) {
	if result := CheckForUpdate(context.Background(), "dev"); result != nil {
		t.Error("Expected nil for dev version, got result")
	}
	if result := CheckForUpdate(context.Background(), ""); result != nil {
		t.Error("Expected nil for empty version, got result")
	}
}

func TestCheckForUpdate_UpdateAvailable(t *testing.T) {
	_, cleanup := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/vnd.github.v3+json" {
			t.Error("Expected GitHub API accept header")
		}
		releaseHandler("v2.0.0")(w, r)
	})
	defer cleanup()

	result := CheckForUpdate(context.Background(), "1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if !result.UpdateAvailable {
		t.Error("Expected update to be available")
	}
	if result.CurrentVersion != "1.0.0" {
		t.Errorf("Expected current version 1.0.0, got %s", result.CurrentVersion)
	}
	if result.LatestVersion != "2.0.0" {
		t.Errorf("Expected latest version 2.0.0, got %s", result.LatestVersion)
	}
}

func TestCheckForUpdate_NoUpdateNeeded(t *testing.T) {
	_, cleanup := setupTestServer(releaseHandler("v1.0.0"))
	defer cleanup()

	result := CheckForUpdate(context.Background(), "1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if result.UpdateAvailable {
		t.Error("Expected no update to be available")
	}
}

func TestCheckForUpdate_CurrentVersionNewer(t *testing.T) {
	_, cleanup := setupTestServer(releaseHandler("v1.0.0"))
	defer cleanup()

	result := CheckForUpdate(context.Background(), "2.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if result.UpdateAvailable {
		t.Error("Expected no update to be available when current is newer")
	}
}

func TestCheckForUpdate_PatchVersionUpdate(t *testing.T) {
	_, cleanup := setupTestServer(releaseHandler("v1.0.1"))
	defer cleanup()

	result := CheckForUpdate(context.Background(), "v1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if !result.UpdateAvailable {
		t.Error("Expected patch update to be available")
	}
}

func TestCheckForUpdate_ServerError(t *testing.T) {
	_, cleanup := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer cleanup()

	if result := CheckForUpdate(context.Background(), "1.0.0"); result != nil {
		t.Error("Expected nil on server error, got result")
	}
}

func TestCheckForUpdate_InvalidJSON(t *testing.T) {
	_, cleanup := setupTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("invalid json"))
	})
	defer cleanup()

	if result := CheckForUpdate(context.Background(), "1.0.0"); result != nil {
		t.Error("Expected nil on invalid JSON, got result")
	}
}

func TestCheckForUpdate_InvalidSemver(t *testing.T) {
	_, cleanup := setupTestServer(releaseHandler("not-a-version"))
	defer cleanup()

	result := CheckForUpdate(context.Background(), "1.0.0")
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	if result.UpdateAvailable {
		t.Error("Expected UpdateAvailable to be false for invalid semver")
	}
}

func TestCheckForUpdate_ContextCanceled(t *testing.T) {
	_, cleanup := setupTestServer(releaseHandler("v2.0.0"))
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if result := CheckForUpdate(ctx, "1.0.0"); result != nil {
		t.Error("Expected nil on canceled context, got result")
	}
}

func TestCheckForUpdate_ConnectionError(t *testing.T) {
	originalURL := ReleasesURL
	ReleasesURL = "http://localhost:1"
	defer func() { ReleasesURL = originalURL }()

	if result := CheckForUpdate(context.Background(), "1.0.0"); result != nil {
		t.Error("Expected nil on connection error, got result")
	}
}
