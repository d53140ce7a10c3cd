package interfaces

import "time"

// JobStatus describes the scheduling state of a registered job.
type JobStatus struct {
	Name        string     `json:"name"`
	Enabled     bool       `json:"enabled"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService manages cron-scheduled background jobs.
type SchedulerService interface {
	// RegisterJob adds a job to the scheduler. Must be called before Start.
	RegisterJob(name, schedule, description string, handler func() error) error

	// TriggerJob runs a registered job immediately in the background.
	TriggerJob(name string) error

	GetJobStatus(name string) (*JobStatus, error)
	GetAllJobStatuses() map[string]*JobStatus

	Start() error
	Stop() error
	IsRunning() bool
}
