package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solorzano0401/genesis-tools/internal/constants"
	"github.com/solorzano0401/genesis-tools/internal/imaging"
	"github.com/solorzano0401/genesis-tools/internal/preview"
)

// PreviewSession holds one uploaded source image and the debounced scheduler
// that recomputes its live preview as parameters change. Clients create a
// session once, post parameter updates as the user adjusts them, and receive
// "preview_ready" events over SSE when a settled recompute finishes.
type PreviewSession struct {
	EventBroadcaster

	ID     string       `json:"id"`
	Source imaging.Dims `json:"source"`

	sched  *preview.Scheduler
	latest *preview.Result
	closed bool
}

// GetStatus implements SSEJob. Sessions have no terminal state of their own;
// the stream ends when the client disconnects or the session is closed.
func (s *PreviewSession) GetStatus() JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return JobStatusCancelled
	}
	return JobStatusRunning
}

// deliver receives settled results from the scheduler and notifies listeners.
// The image bytes stay server-side; clients fetch them from the result endpoint.
func (s *PreviewSession) deliver(res preview.Result) {
	s.mu.Lock()
	s.latest = &res
	s.mu.Unlock()

	if res.Err != nil {
		s.SendEvent(JobEvent{Type: "preview_failed", Message: res.Err.Error()})
		return
	}
	s.SendEvent(JobEvent{Type: "preview_ready", Data: map[string]any{
		"width":  res.Params.Width,
		"height": res.Params.Height,
		"format": res.Params.Format,
		"size":   len(res.Data),
	}})
}

// Latest returns the most recently settled result, or nil before the first.
func (s *PreviewSession) Latest() *preview.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *PreviewSession) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.SendEvent(JobEvent{Type: "closed"})
}

// PreviewManager tracks live preview sessions.
type PreviewManager struct {
	sessions map[string]*PreviewSession
	mu       sync.RWMutex

	// Window overrides the scheduler quiescence period. Zero means the default.
	Window time.Duration
}

// NewPreviewManager creates a new preview session manager.
func NewPreviewManager() *PreviewManager {
	return &PreviewManager{
		sessions: make(map[string]*PreviewSession),
	}
}

// Create opens a session for the given source image.
func (m *PreviewManager) Create(data []byte) (*PreviewSession, error) {
	dims, err := imaging.SourceDims(data)
	if err != nil {
		return nil, err
	}

	s := &PreviewSession{
		ID:     uuid.NewString(),
		Source: dims,
	}
	s.sched = &preview.Scheduler{
		Window: m.Window,
		Compute: func(p preview.Params) ([]byte, error) {
			return imaging.Transcode(data, p.Width, p.Height, p.Format, p.Quality)
		},
		Sink: s.deliver,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

// Get retrieves a session by ID.
func (m *PreviewManager) Get(id string) *PreviewSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Delete removes a session.
func (m *PreviewManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// PreviewHandler implements the live preview endpoints.
type PreviewHandler struct {
	manager *PreviewManager
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(m *PreviewManager) *PreviewHandler {
	return &PreviewHandler{manager: m}
}

// Create opens a preview session for one uploaded image.
func (h *PreviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		respondError(w, http.StatusBadRequest, "exactly one image is required")
		return
	}
	data, err := readUpload(files[0])
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.manager.Create(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

// Update schedules a recompute with new parameters. Rapid updates coalesce;
// pass immediate=true to skip the debounce window (e.g. on an explicit
// apply action), in which case the result is ready when the call returns.
func (h *PreviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Get(chi.URLParam(r, "sessionId"))
	if session == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	spec, err := parseSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dims := imaging.TargetDims(session.Source, spec.Width, spec.Height, spec.MaintainAspect)
	session.sched.Request(preview.NewParams(session.ID, dims.W, dims.H, spec.Format, spec.Quality))
	if formValueBool(r, "immediate") {
		session.sched.Flush()
	}
	respondJSON(w, http.StatusAccepted, map[string]int{"width": dims.W, "height": dims.H})
}

// Result serves the latest settled preview image.
func (h *PreviewHandler) Result(w http.ResponseWriter, r *http.Request) {
	session := h.manager.Get(chi.URLParam(r, "sessionId"))
	if session == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	res := session.Latest()
	if res == nil {
		respondError(w, http.StatusNotFound, "no preview computed yet")
		return
	}
	if res.Err != nil {
		respondError(w, http.StatusUnprocessableEntity, res.Err.Error())
		return
	}

	w.Header().Set("Content-Type", res.Params.Format.MIME())
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// Events streams preview notifications via SSE.
func (h *PreviewHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			if s := h.manager.Get(id); s != nil {
				return s
			}
			return nil
		},
		func(j SSEJob) any { return j },
	)
}

// Close ends a session and releases its source image.
func (h *PreviewHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	session := h.manager.Get(id)
	if session == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	h.manager.Delete(id)
	session.close()
	respondJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}
