package websocket

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/mathanim/api/internal/model"
)

// PingInterval is how often an idle stream pings the client.
var PingInterval = 30 * time.Second

// ErrNoPrompt is returned when the client closes before sending a prompt.
var ErrNoPrompt = errors.New("no prompt received")

var stepDescriptions = map[model.JobState]string{
	model.JobStatePending:      "Preparing workspace",
	model.JobStateRendering:    "Rendering animation",
	model.JobStateRenderFailed: "Render failed",
	model.JobStateRetrying:     "Retrying with a simpler scene",
	model.JobStateRetryFailed:  "Retry failed",
	model.JobStateVideoFound:   "Publishing video",
	model.JobStateVideoMissing: "No video produced",
	model.JobStateDone:         "Done",
}

// Stream pushes one generation job's progress to a websocket client. All
// writes go through a single writer goroutine.
type Stream struct {
	conn  *websocket.Conn
	out   chan []byte
	done  chan struct{}
	ended chan struct{}
	once  sync.Once

	// closed by the watcher goroutine, nil until WatchClose is called
	watched chan struct{}

	mu    sync.Mutex
	jobID string
}

// NewStream starts the writer loop for conn.
func NewStream(conn *websocket.Conn) *Stream {
	s := &Stream{
		conn:  conn,
		out:   make(chan []byte, 32),
		done:  make(chan struct{}),
		ended: make(chan struct{}),
	}
	go s.writeLoop()
	return s
}

func (s *Stream) writeLoop() {
	defer close(s.ended)

	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.out:
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			// Send ping for keep-alive
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			for {
				select {
				case message := <-s.out:
					if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					_ = s.conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}
		}
	}
}

func (s *Stream) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("WebSocket: failed to marshal message: %v", err)
		return
	}
	select {
	case s.out <- data:
	case <-s.done:
	case <-s.ended:
	}
}

// Progress reports a job state transition. It has the service.Observer signature.
func (s *Stream) Progress(jobID string, state model.JobState) {
	s.mu.Lock()
	s.jobID = jobID
	s.mu.Unlock()

	s.send(model.WSProgressMessage{
		Type:  model.WSMessageTypeProgress,
		JobID: jobID,
		State: state,
		Step:  stepDescriptions[state],
	})
}

// Complete sends the final result.
func (s *Stream) Complete(result *model.GenerateResponse) {
	s.send(model.WSCompleteMessage{
		Type:   model.WSMessageTypeComplete,
		JobID:  result.JobID,
		Result: result,
	})
}

// Error sends body as the job's error.
func (s *Stream) Error(body interface{}) {
	s.mu.Lock()
	jobID := s.jobID
	s.mu.Unlock()

	s.send(model.WSErrorMessage{
		Type:  model.WSMessageTypeError,
		JobID: jobID,
		Error: body,
	})
}

// ReadPrompt reads client messages until one carries a prompt, answering pings.
func (s *Stream) ReadPrompt() (string, error) {
	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("WebSocket: read failed: %v", err)
			}
			return "", ErrNoPrompt
		}

		var msg model.WSGenerateMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			s.Error(map[string]string{"error": "Invalid message"})
			continue
		}

		switch msg.Type {
		case model.WSMessageTypePing:
			s.send(model.WSMessage{Type: model.WSMessageTypePong})
		case "", model.WSMessageTypeGenerate:
			return strings.TrimSpace(msg.Prompt), nil
		}
	}
}

// WatchClose reads in the background until the connection drops and then
// calls onClose. Pings are answered while waiting. Close stops the reader and
// waits for it, so the connection is never read after the handler returns.
func (s *Stream) WatchClose(onClose func()) {
	s.watched = make(chan struct{})
	go func() {
		defer close(s.watched)
		defer onClose()
		for {
			_, message, err := s.conn.ReadMessage()
			if err != nil {
				return
			}
			var msg model.WSMessage
			if json.Unmarshal(message, &msg) == nil && msg.Type == model.WSMessageTypePing {
				s.send(model.WSMessage{Type: model.WSMessageTypePong})
			}
		}
	}()
}

// Close flushes queued messages, sends a close frame, stops the writer and
// waits for the close watcher to exit.
func (s *Stream) Close() {
	s.once.Do(func() { close(s.done) })
	<-s.ended
	if s.watched != nil {
		_ = s.conn.SetReadDeadline(time.Now())
		<-s.watched
	}
}
