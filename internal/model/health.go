package model

// HealthChecks holds the capability flags of the environment
type HealthChecks struct {
	ManimInstalled  bool `json:"manim_installed"`
	FFmpegInstalled bool `json:"ffmpeg_installed"`
	LLMConfigured   bool `json:"llm_configured"`
}

// AllPassed reports whether every check succeeded
func (c HealthChecks) AllPassed() bool {
	return c.ManimInstalled && c.FFmpegInstalled && c.LLMConfigured
}

// HealthDirectories lists the directories the service works with
type HealthDirectories struct {
	VideoFolder    string `json:"video_folder"`
	TempFolder     string `json:"temp_folder"`
	FrontendFolder string `json:"frontend_folder"`
}

// HealthSnapshot is a point-in-time read of the environment
type HealthSnapshot struct {
	Status          string            `json:"status"`
	Checks          HealthChecks      `json:"checks"`
	PythonWithManim *string           `json:"python_with_manim"`
	GroqConfigured  bool              `json:"groq_configured"`
	Storage         string            `json:"storage"`
	Directories     HealthDirectories `json:"directories"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
)
