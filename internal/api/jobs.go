package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/baig/gopandoc/core/errors"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job represents an asynchronous conversion job.
type Job struct {
	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"` // 0-100
	Stage       string             `json:"stage,omitempty"`
	Result      *ConvertResult     `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	CompletedAt string             `json:"completed_at,omitempty"`
	Request     ConvertRequest     `json:"request"`
	ctx         context.Context    `json:"-"`
	cancel      context.CancelFunc `json:"-"`
}

// JobStore manages conversion jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

// Create creates a new pending job.
func (s *JobStore) Create(req ConvertRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		Request:   req,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.jobs[job.ID] = job
	return job
}

// Get retrieves a copy of a job by ID. Callers get a snapshot, never
// the stored value that runJob mutates.
func (s *JobStore) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

// Update updates a job's status and progress.
func (s *JobStore) Update(id string, status JobStatus, stage string, progress int, result *ConvertResult, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "job %s", id)
	}

	job.Status = status
	job.Stage = stage
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if result != nil {
		job.Result = result
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	if status == JobStatusCompleted || status == JobStatusFailed || status == JobStatusCancelled {
		job.CompletedAt = job.UpdatedAt
	}

	return nil
}

// List returns a snapshot of all jobs.
func (s *JobStore) List() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, *job)
	}
	return jobs
}

// Cancel cancels a pending or running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "job %s", id)
	}

	if job.Status != JobStatusPending && job.Status != JobStatusRunning {
		return errors.Wrapf(errors.ErrInvalidInput, "job cannot be cancelled (status: %s)", job.Status)
	}

	if job.cancel != nil {
		job.cancel()
	}

	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = JobStatusCancelled
	job.UpdatedAt = now
	job.CompletedAt = now

	return nil
}

// runJob executes a conversion job in a goroutine, reporting progress
// to the store and the WebSocket hub.
func (s *Server) runJob(job *Job) {
	go func() {
		progress := func(stage string, pct int) {
			s.jobs.Update(job.ID, JobStatusRunning, stage, pct, nil, "")
			s.hub.Broadcast(ProgressMessage{
				Type:      "progress",
				Operation: "convert",
				JobID:     job.ID,
				Stage:     stage,
				Progress:  pct,
			})
		}

		progress("start", 0)

		result, err := s.convert(job.ctx, job.Request, progress)
		if err != nil {
			if job.ctx.Err() != nil {
				s.jobs.Update(job.ID, JobStatusCancelled, "", 0, nil, "job cancelled")
				return
			}
			s.jobs.Update(job.ID, JobStatusFailed, "", 100, nil, err.Error())
			s.hub.Broadcast(ProgressMessage{
				Type:      "error",
				Operation: "convert",
				JobID:     job.ID,
				Message:   err.Error(),
			})
			return
		}

		s.jobs.Update(job.ID, JobStatusCompleted, "done", 100, result, "")
		s.hub.Broadcast(ProgressMessage{
			Type:      "complete",
			Operation: "convert",
			JobID:     job.ID,
			Progress:  100,
		})
	}()
}

// handleJobs handles POST /api/jobs (create) and GET /api/jobs (list).
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs := s.jobs.List()
		respondList(w, http.StatusOK, jobs, len(jobs))
	case http.MethodPost:
		var req ConvertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
			return
		}
		if req.Source == "" {
			respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "source is required")
			return
		}

		job := s.jobs.Create(req)
		// Snapshot before the worker goroutine starts mutating the job.
		created := *job
		s.runJob(job)
		respond(w, http.StatusCreated, created)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and POST are allowed")
	}
}

// handleJobByID handles GET /api/jobs/{id} and DELETE /api/jobs/{id}.
func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, exists := s.jobs.Get(id)
		if !exists {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
			return
		}
		respond(w, http.StatusOK, job)
	case http.MethodDelete:
		if err := s.jobs.Cancel(id); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
				return
			}
			respondError(w, http.StatusBadRequest, "CANCEL_FAILED", err.Error())
			return
		}
		respond(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}

func respondList(w http.ResponseWriter, status int, data interface{}, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
