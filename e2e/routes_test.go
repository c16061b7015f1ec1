package e2e

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHealth(t *testing.T) {
	ta := setupApp(t, appOptions{})

	resp := doRequest(t, ta.app, http.MethodGet, "/health", "", nil)
	assertStatus(t, resp, http.StatusOK)
	result := parseJSON(t, resp)

	if result["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", result["status"])
	}
	if result["python_with_manim"] != "python3" {
		t.Errorf("expected python3, got %v", result["python_with_manim"])
	}
	if result["groq_configured"] != false {
		t.Errorf("expected groq_configured=false, got %v", result["groq_configured"])
	}
	if result["storage"] != "local" {
		t.Errorf("expected local storage, got %v", result["storage"])
	}
	dirs, _ := result["directories"].(map[string]interface{})
	if dirs["video_folder"] != ta.videoDir {
		t.Errorf("expected video_folder %s, got %v", ta.videoDir, dirs["video_folder"])
	}
}

func TestHealth_WithoutManim(t *testing.T) {
	ta := setupApp(t, appOptions{noManim: true})

	resp := doRequest(t, ta.app, http.MethodGet, "/health", "", nil)
	assertStatus(t, resp, http.StatusOK)
	result := parseJSON(t, resp)

	if result["status"] != "unhealthy" {
		t.Errorf("expected unhealthy, got %v", result["status"])
	}
	if result["python_with_manim"] != nil {
		t.Errorf("expected null python_with_manim, got %v", result["python_with_manim"])
	}
}

func TestSetupInfo(t *testing.T) {
	ta := setupApp(t, appOptions{})

	resp := doRequest(t, ta.app, http.MethodGet, "/setup-info", "", nil)
	assertStatus(t, resp, http.StatusOK)
	result := parseJSON(t, resp)

	for _, key := range []string{"quick_setup", "linux", "mac", "windows", "docker"} {
		if _, ok := result[key].([]interface{}); !ok {
			t.Errorf("missing %s instructions", key)
		}
	}
}

func TestUnknownEndpoint(t *testing.T) {
	ta := setupApp(t, appOptions{})

	resp := doRequest(t, ta.app, http.MethodGet, "/nope", "", nil)
	assertStatus(t, resp, http.StatusNotFound)
	result := parseJSON(t, resp)
	if result["error"] != "Endpoint not found" {
		t.Errorf("unexpected error %v", result["error"])
	}
}

func TestVideos_RejectsTraversal(t *testing.T) {
	ta := setupApp(t, appOptions{})

	secret := filepath.Join(filepath.Dir(ta.videoDir), "secret.mp4")
	if err := os.WriteFile(secret, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{"/videos/..%2Fsecret.mp4", "/videos/notes.txt", "/videos/missing.mp4"} {
		resp := doRequest(t, ta.app, http.MethodGet, p, "", nil)
		assertStatus(t, resp, http.StatusNotFound)
		if body := readBody(t, resp); strings.Contains(body, "secret") {
			t.Errorf("%s leaked a file outside the videos directory", p)
		}
	}
}

func TestHome_FallbackPage(t *testing.T) {
	ta := setupApp(t, appOptions{})

	resp := doRequest(t, ta.app, http.MethodGet, "/", "", nil)
	assertStatus(t, resp, http.StatusOK)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html, got %q", ct)
	}
	if body := readBody(t, resp); !strings.Contains(body, "<html") {
		t.Error("expected the built-in page")
	}
}

func TestWebSocketRoute_RequiresUpgrade(t *testing.T) {
	ta := setupApp(t, appOptions{})

	resp := doRequest(t, ta.app, http.MethodGet, "/ws/generate", "", nil)
	assertStatus(t, resp, http.StatusUpgradeRequired)
}
