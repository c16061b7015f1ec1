package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mathanim/api/internal/classifier"
	"github.com/mathanim/api/internal/client"
	"github.com/mathanim/api/internal/config"
	"github.com/mathanim/api/internal/middleware"
	"github.com/mathanim/api/internal/model"
	"github.com/mathanim/api/internal/scene"
	"github.com/mathanim/api/internal/server"
	"github.com/mathanim/api/internal/service"
)

const testJWTSecret = "test-secret-for-e2e"

// stubRenderer stands in for the manim CLI. failures is the number of
// leading render calls that fail.
type stubRenderer struct {
	mu       sync.Mutex
	failures int
	scripts  []string
}

func (r *stubRenderer) Render(ctx context.Context, in client.RenderInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, _ := os.ReadFile(in.ScriptPath)
	r.scripts = append(r.scripts, string(code))
	if r.failures > 0 {
		r.failures--
		return &client.RenderError{
			Output: "NameError: name 'Sphere3D' is not defined",
			Err:    io.ErrUnexpectedEOF,
		}
	}

	dir := filepath.Join(in.OutputDir, "videos", "scene", "480p15")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, in.SceneName+".mp4"), []byte("fake mp4"), 0o644)
}

func (r *stubRenderer) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scripts)
}

type stubProber struct {
	interpreter string
}

func (p stubProber) FindInterpreter(ctx context.Context) string { return p.interpreter }
func (p stubProber) FFmpegAvailable(ctx context.Context) bool  { return p.interpreter != "" }

type appOptions struct {
	groq        config.GroqConfig
	renderer    *stubRenderer
	noManim     bool
	jwtSecret   string
}

// testApp holds all components needed for testing
type testApp struct {
	app      *fiber.App
	renderer *stubRenderer
	videoDir string
	tempDir  string
}

// setupApp builds the same application main does, with the renderer and the
// environment probe replaced by stubs.
func setupApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()

	root := t.TempDir()
	videoDir := filepath.Join(root, "videos")
	tempDir := filepath.Join(root, "temp")
	for _, dir := range []string{videoDir, tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	if opts.renderer == nil {
		opts.renderer = &stubRenderer{}
	}
	interpreter := "python3"
	if opts.noManim {
		interpreter = ""
	}

	groqClient := client.NewGroqClient(&opts.groq)
	publisher := service.NewLocalPublisher(videoDir)
	health := service.NewHealthService(stubProber{interpreter: interpreter}, groqClient.IsConfigured(), publisher.Name(), model.HealthDirectories{
		VideoFolder:    videoDir,
		TempFolder:     tempDir,
		FrontendFolder: filepath.Join(root, "frontend"),
	})
	generate := service.NewGenerateService(
		service.NewCodegenService(groqClient, classifier.Default(), scene.NewLibrary()),
		service.NewRenderService(opts.renderer, publisher),
		service.NewWorkspace(tempDir),
		health,
	)

	app := server.New(server.Options{
		Generator:   generate,
		Validator:   validator.New(),
		Auth:        middleware.NewAuthMiddleware(opts.jwtSecret),
		VideoDir:    videoDir,
		FrontendDir: filepath.Join(root, "frontend"),
	})

	return &testApp{app: app, renderer: opts.renderer, videoDir: videoDir, tempDir: tempDir}
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) *http.Response {
	t.Helper()

	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	resp.Body.Close()
	return string(data)
}

func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body := readBody(t, resp)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, body)
	}
	return result
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// startServer serves app on a loopback listener and returns its address.
func startServer(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(5 * time.Second) })
	return ln.Addr().String()
}

// entries lists the names in dir.
func entries(t *testing.T, dir string) []string {
	t.Helper()
	list, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	names := make([]string, 0, len(list))
	for _, e := range list {
		names = append(names, e.Name())
	}
	return names
}
