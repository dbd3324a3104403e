package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/solorzano0401/genesis-tools/internal/constants"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ResizeJob represents an async batch resize job.
type ResizeJob struct {
	EventBroadcaster

	ID          string           `json:"id"`
	Status      JobStatus        `json:"status"`
	Progress    int              `json:"progress"`
	TotalImages int              `json:"total_images"`
	Error       string           `json:"error,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Result      *ResizeJobResult `json:"result,omitempty"`

	// output holds the finished artifact until it is downloaded.
	output []byte

	// ctx is cancelled by Cancel; the running batch watches it.
	ctx context.Context
}

// Context returns the job's cancellation context.
func (j *ResizeJob) Context() context.Context {
	return j.ctx
}

// ResizeJobResult summarizes a finished batch.
type ResizeJobResult struct {
	FileName string   `json:"file_name"`
	MIME     string   `json:"mime"`
	Size     int      `json:"size"`
	Archived bool     `json:"archived"`
	Failed   []string `json:"failed,omitempty"`
	Skipped  []string `json:"skipped,omitempty"`
}

// GetStatus returns the current job status (implements SSEJob).
func (j *ResizeJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// SetStatus updates the job status under the lock.
func (j *ResizeJob) SetStatus(status JobStatus) {
	j.mu.Lock()
	j.Status = status
	j.mu.Unlock()
}

// SetProgress updates the progress percentage and notifies listeners.
func (j *ResizeJob) SetProgress(percent int) {
	j.mu.Lock()
	j.Progress = percent
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "progress", Data: map[string]int{"percent": percent}})
}

// Complete marks the job finished and stores the artifact for download.
func (j *ResizeJob) Complete(result *ResizeJobResult, output []byte) {
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusCompleted
	j.Progress = 100
	j.Result = result
	j.output = output
	j.CompletedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "completed", Data: result})
}

// Fail marks the job failed.
func (j *ResizeJob) Fail(message string) {
	now := time.Now()
	j.mu.Lock()
	j.Status = JobStatusFailed
	j.Error = message
	j.CompletedAt = &now
	j.mu.Unlock()
	j.SendEvent(JobEvent{Type: "failed", Message: message})
}

// Output returns the stored artifact, or nil when the job has not completed.
func (j *ResizeJob) Output() (*ResizeJobResult, []byte) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Result, j.output
}

// Cancel cancels the resize job. The status flips before the context is
// cancelled so the batch goroutine can tell cancellation from failure.
func (j *ResizeJob) Cancel() {
	j.SetStatus(JobStatusCancelled)
	j.EventBroadcaster.Cancel()
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	if b.cancel != nil {
		b.cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async resize jobs.
type JobManager struct {
	jobs map[string]*ResizeJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*ResizeJob),
	}
}

// CreateJob creates a new resize job.
func (m *JobManager) CreateJob(id string, totalImages int) *ResizeJob {
	ctx, cancel := context.WithCancel(context.Background())
	job := &ResizeJob{
		ID:          id,
		Status:      JobStatusPending,
		TotalImages: totalImages,
		StartedAt:   time.Now(),
		ctx:         ctx,
	}
	job.cancel = cancel

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *ResizeJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*ResizeJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*ResizeJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}
