package model

// Topic is a classification bucket driving template selection
type Topic string

const (
	TopicShapeTransform  Topic = "shape_transform"
	TopicPythagorean     Topic = "pythagorean"
	TopicTrigWave        Topic = "trig_wave"
	TopicBouncingPhysics Topic = "bouncing_physics"
	TopicQuadratic       Topic = "quadratic"
	TopicDerivative      Topic = "derivative"
	TopicGeneric         Topic = "generic"
)

var ValidTopics = []Topic{
	TopicShapeTransform, TopicPythagorean, TopicTrigWave, TopicBouncingPhysics,
	TopicQuadratic, TopicDerivative, TopicGeneric,
}

// IsValid reports whether t is one of the known topics
func (t Topic) IsValid() bool {
	for _, v := range ValidTopics {
		if v == t {
			return true
		}
	}
	return false
}

// Script sources
type ScriptSource string

const (
	ScriptSourceLLM      ScriptSource = "llm"
	ScriptSourceTemplate ScriptSource = "template"
)

// Job states
type JobState string

const (
	JobStatePending      JobState = "pending"
	JobStateRendering    JobState = "rendering"
	JobStateRenderFailed JobState = "render_failed"
	JobStateRetrying     JobState = "retrying"
	JobStateRetryFailed  JobState = "retry_failed"
	JobStateVideoFound   JobState = "video_found"
	JobStateVideoMissing JobState = "video_missing"
	JobStateDone         JobState = "done"
)

// IsTerminalFailure reports whether the state ends a job with an error
func (s JobState) IsTerminalFailure() bool {
	return s == JobStateRetryFailed || s == JobStateVideoMissing
}
