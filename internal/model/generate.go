package model

// GenerateRequest represents the request body for animation generation
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GenerateResponse represents a successful generation
type GenerateResponse struct {
	Success   bool   `json:"success"`
	ManimCode string `json:"manim_code"`
	VideoURL  string `json:"video_url"`
	JobID     string `json:"job_id,omitempty"`
}

// GeneratedScript is the output of the code generator
type GeneratedScript struct {
	Code   string
	Topic  Topic
	Source ScriptSource
}
