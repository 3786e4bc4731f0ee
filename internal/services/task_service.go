// Package services contains the domain logic: the review workflow, the
// translation write path, the auto-translate orchestrators, and the
// supporting import/export and scrape jobs.
package services

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"lingo-hub/internal/store"
)

// Task type constants.
const (
	TaskTypeBulkTranslate = "BULK_TRANSLATE"
	TaskTypeScrapeImport  = "SCRAPE_IMPORT"
	TaskTypeJSONImport    = "JSON_IMPORT"
)

// ErrTaskAlreadyRunning is returned when a task slot is requested while
// another task is still running.
var ErrTaskAlreadyRunning = errors.New("a task is already running")

const taskStatusKey = "task:status"

// TaskStatus describes the single global long-running task slot.
type TaskStatus struct {
	IsRunning  bool       `json:"is_running"`
	TaskType   string     `json:"task_type,omitempty"`
	AppName    string     `json:"app_name,omitempty"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Result     any        `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// TaskService tracks one global long-running task in the store so that any
// node can answer status polls.
type TaskService struct {
	mu    sync.Mutex
	store store.Store
}

// NewTaskService creates a new TaskService.
func NewTaskService(s store.Store) *TaskService {
	return &TaskService{store: s}
}

// StartTask claims the global task slot. Returns ErrTaskAlreadyRunning when
// a previous task has not finished.
func (s *TaskService) StartTask(taskType, appName string, total int) (*TaskStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readStatus()
	if err != nil {
		return nil, err
	}
	if current.IsRunning {
		return nil, ErrTaskAlreadyRunning
	}

	now := time.Now()
	status := &TaskStatus{
		IsRunning: true,
		TaskType:  taskType,
		AppName:   appName,
		Total:     total,
		StartedAt: &now,
	}
	if err := s.writeStatus(status); err != nil {
		return nil, err
	}
	return status, nil
}

// GetTaskStatus returns the current task status. When no task has ever run
// it returns an idle status.
func (s *TaskService) GetTaskStatus() (*TaskStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readStatus()
}

// UpdateProgress records how many items the running task has processed.
func (s *TaskService) UpdateProgress(processed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.readStatus()
	if err != nil {
		return err
	}
	if !status.IsRunning {
		return errors.New("no task is running")
	}
	status.Processed = processed
	return s.writeStatus(status)
}

// EndTask releases the task slot, recording either a result or an error.
func (s *TaskService) EndTask(result any, taskErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, err := s.readStatus()
	if err != nil {
		return err
	}
	if !status.IsRunning {
		return errors.New("no task is running")
	}

	now := time.Now()
	status.IsRunning = false
	status.FinishedAt = &now
	status.Result = result
	if taskErr != nil {
		status.Error = taskErr.Error()
	}
	return s.writeStatus(status)
}

func (s *TaskService) readStatus() (*TaskStatus, error) {
	data, err := s.store.Get(taskStatusKey)
	if err == store.ErrNotFound {
		return &TaskStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	var status TaskStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *TaskService) writeStatus(status *TaskStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	// Finished task results stay pollable for a day.
	return s.store.Set(taskStatusKey, data, 24*time.Hour)
}
