package handler

import (
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

type HomeHandler struct {
	frontendDir string
}

func NewHomeHandler(frontendDir string) *HomeHandler {
	return &HomeHandler{frontendDir: frontendDir}
}

// Home handles GET /. It serves frontend/index.html when present and a small
// built-in page otherwise.
func (h *HomeHandler) Home(c *fiber.Ctx) error {
	if h.frontendDir != "" {
		index := filepath.Join(h.frontendDir, "index.html")
		if info, err := os.Stat(index); err == nil && info.Mode().IsRegular() {
			return c.SendFile(index)
		}
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(fallbackPage)
}

const fallbackPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Math Animation Generator</title>
  <style>
    body { font-family: sans-serif; max-width: 760px; margin: 40px auto; padding: 0 16px; }
    textarea { width: 100%; height: 90px; }
    pre { background: #f4f4f4; padding: 12px; overflow-x: auto; }
    video { width: 100%; margin-top: 16px; }
  </style>
</head>
<body>
  <h1>Math Animation Generator</h1>
  <p>Describe an animation, for example "show me a bouncing ball".</p>
  <textarea id="prompt"></textarea>
  <p><button id="go">Generate</button> <span id="status"></span></p>
  <video id="video" controls hidden></video>
  <pre id="code" hidden></pre>
  <p><a href="/health">Health</a> | <a href="/setup-info">Setup info</a></p>
  <script>
    document.getElementById('go').onclick = async () => {
      const status = document.getElementById('status');
      status.textContent = 'Generating...';
      const res = await fetch('/generate', {
        method: 'POST',
        headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({prompt: document.getElementById('prompt').value})
      });
      const data = await res.json();
      const code = document.getElementById('code');
      code.hidden = !data.manim_code;
      code.textContent = data.manim_code || '';
      if (!res.ok) {
        status.textContent = data.error + (data.details ? ': ' + data.details : '');
        return;
      }
      status.textContent = 'Done';
      const video = document.getElementById('video');
      video.src = data.video_url;
      video.hidden = false;
    };
  </script>
</body>
</html>
`
