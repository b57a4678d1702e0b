// internal/models/job.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "OPEN"
	JobStatusInProgress JobStatus = "IN_PROGRESS"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown job status %q", s)
	}
}

type ApplicationStatus string

const (
	ApplicationApplied  ApplicationStatus = "applied"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationDeclined ApplicationStatus = "declined"
)

type Job struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title          string                      `gorm:"not null" json:"title"`
	Description    string                      `gorm:"type:text;not null" json:"description"`
	RequiredSkills datatypes.JSONSlice[string] `gorm:"not null" json:"required_skills"`
	Location       string                      `gorm:"not null" json:"location"`
	Budget         float64                     `gorm:"not null" json:"budget"`

	Status           JobStatus  `gorm:"type:varchar(20);not null;default:'OPEN';index" json:"status"`
	AssignedWorkerID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_worker_id,omitempty"`
	IsRated          bool       `gorm:"not null;default:false" json:"is_rated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Client         *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	AssignedWorker *User            `gorm:"foreignKey:AssignedWorkerID" json:"assigned_worker,omitempty"`
	Applications   []JobApplication `gorm:"foreignKey:JobID" json:"applications,omitempty"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) (err error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusOpen
	}
	return
}

// HasApplicant reports whether workerID is in the application list.
func (j *Job) HasApplicant(workerID uuid.UUID) bool {
	for _, a := range j.Applications {
		if a.WorkerID == workerID {
			return true
		}
	}
	return false
}

// JobApplication is a worker's entry in a job's application list; at most one per worker.
type JobApplication struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	JobID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_job_application_worker" json:"job_id"`
	WorkerID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_job_application_worker;index" json:"worker_id"`
	Status    ApplicationStatus `gorm:"type:varchar(20);not null;default:'applied'" json:"status"`
	AppliedAt time.Time         `gorm:"not null;index" json:"applied_at"`

	Worker *User `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
}

func (a *JobApplication) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	if a.Status == "" {
		a.Status = ApplicationApplied
	}
	return
}
