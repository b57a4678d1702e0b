package jobs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/policy"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/matching"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/workly_be/internal/services/workers"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
	"github.com/Windi-Fikriyansyah/workly_be/internal/validator"
)

// Service drives the job lifecycle OPEN -> IN_PROGRESS -> COMPLETED.
//
// Every transition is a conditional UPDATE keyed on the expected prior
// state; a zero RowsAffected means another request moved the job first.
type Service struct {
	DB       *gorm.DB
	Log      *zap.Logger
	V        *validator.Validator
	Workers  *workers.Service
	Notifier notify.Notifier
	Now      func() time.Time
}

func NewService(db *gorm.DB, log *zap.Logger, v *validator.Validator, ws *workers.Service, n notify.Notifier) *Service {
	return &Service{
		DB:       db,
		Log:      log,
		V:        v,
		Workers:  ws,
		Notifier: n,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

type CreateJobInput struct {
	Title          string   `json:"title" validate:"required"`
	Description    string   `json:"description" validate:"required"`
	RequiredSkills []string `json:"requiredSkills" validate:"required,min=1,dive,required"`
	Location       string   `json:"location" validate:"required"`
	Budget         float64  `json:"budget" validate:"required,gt=0"`
}

func (s *Service) Create(ctx context.Context, actor policy.Actor, in CreateJobInput) (*models.Job, error) {
	if err := policy.Check(actor, policy.ClientOnly, nil); err != nil {
		return nil, err
	}
	// trim first so whitespace-only values fail "required"
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.RequiredSkills = utils.TrimAll(in.RequiredSkills)
	if err := s.V.Validate(in); err != nil {
		return nil, err
	}

	job := models.Job{
		ClientID:       actor.ID,
		Title:          in.Title,
		Description:    in.Description,
		RequiredSkills: in.RequiredSkills,
		Location:       in.Location,
		Budget:         in.Budget,
		Status:         models.JobStatusOpen,
	}
	if err := s.DB.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	s.Log.Info("job created", zap.Stringer("job_id", job.ID), zap.Stringer("client_id", actor.ID))
	return &job, nil
}

func loadJob(tx *gorm.DB, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := tx.
		Preload("Applications", func(db *gorm.DB) *gorm.DB {
			return db.Order("applied_at ASC")
		}).
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, apperrors.FromDB(err, "Job")
	}
	return &job, nil
}

// Get returns a job with its application list.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return loadJob(s.DB.WithContext(ctx), id)
}

// transition moves job id from one status to another, with extra column updates.
// It reports false when the job was no longer in from.
func transition(tx *gorm.DB, id uuid.UUID, from, to models.JobStatus, extra map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&models.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Service) Apply(ctx context.Context, actor policy.Actor, jobID uuid.UUID) (*models.JobApplication, error) {
	if err := policy.Check(actor, policy.WorkerOnly, nil); err != nil {
		return nil, err
	}

	var (
		app models.JobApplication
		job models.Job
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			return apperrors.FromDB(err, "Job")
		}
		if job.Status != models.JobStatusOpen {
			return apperrors.InvalidState("Job is not open")
		}

		var n int64
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND worker_id = ?", jobID, actor.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflict("Already applied to this job")
		}

		now := s.Now()
		// touching the row re-checks OPEN and locks it against a concurrent accept
		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ?", jobID, models.JobStatusOpen).
			Update("updated_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.InvalidState("Job is not open")
		}

		app = models.JobApplication{
			JobID:     jobID,
			WorkerID:  actor.ID,
			Status:    models.ApplicationApplied,
			AppliedAt: now,
		}
		if err := tx.Create(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("Already applied to this job")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("apply", jobID, err)
	}

	s.Log.Info("worker applied", zap.Stringer("job_id", jobID), zap.Stringer("worker_id", actor.ID))
	s.Notifier.Notify(ctx, job.ClientID, notify.Event{
		Type:    notify.EventJobApplied,
		JobID:   jobID,
		ActorID: actor.ID,
		Payload: map[string]any{"worker_id": actor.ID},
	})
	return &app, nil
}

// Accept assigns workerID to the job. The application list is kept as history:
// the accepted entry is marked accepted and every other entry declined.
func (s *Service) Accept(ctx context.Context, actor policy.Actor, jobID, workerID uuid.UUID) (*models.Job, error) {
	if err := policy.Check(actor, policy.ClientOnly, nil); err != nil {
		return nil, err
	}

	var job *models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if job, err = loadJob(tx, jobID); err != nil {
			return err
		}
		if err := policy.Check(actor, policy.JobOwner, job); err != nil {
			return err
		}
		if job.Status != models.JobStatusOpen {
			return apperrors.InvalidState("Job is not open")
		}
		if !job.HasApplicant(workerID) {
			return apperrors.Validation("Worker did not apply")
		}

		ok, err := transition(tx, jobID, models.JobStatusOpen, models.JobStatusInProgress, map[string]any{
			"assigned_worker_id": workerID,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState("Job is not open")
		}

		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND worker_id = ?", jobID, workerID).
			Update("status", models.ApplicationAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND worker_id <> ?", jobID, workerID).
			Update("status", models.ApplicationDeclined).Error; err != nil {
			return err
		}

		job, err = loadJob(tx, jobID)
		return err
	})
	if err != nil {
		return nil, s.fail("accept", jobID, err)
	}

	s.Log.Info("worker accepted", zap.Stringer("job_id", jobID), zap.Stringer("worker_id", workerID))
	s.Notifier.Notify(ctx, workerID, notify.Event{
		Type:    notify.EventJobAccepted,
		JobID:   jobID,
		ActorID: actor.ID,
		Payload: map[string]any{"title": job.Title},
	})
	return job, nil
}

func (s *Service) Complete(ctx context.Context, actor policy.Actor, jobID uuid.UUID) (*models.Job, error) {
	if err := policy.Check(actor, policy.ClientOnly, nil); err != nil {
		return nil, err
	}

	var job *models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if job, err = loadJob(tx, jobID); err != nil {
			return err
		}
		if err := policy.Check(actor, policy.JobOwner, job); err != nil {
			return err
		}
		if job.Status != models.JobStatusInProgress {
			return apperrors.InvalidState("Only in-progress jobs can be completed")
		}

		ok, err := transition(tx, jobID, models.JobStatusInProgress, models.JobStatusCompleted, nil)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.InvalidState("Only in-progress jobs can be completed")
		}

		job, err = loadJob(tx, jobID)
		return err
	})
	if err != nil {
		return nil, s.fail("complete", jobID, err)
	}

	s.Log.Info("job completed", zap.Stringer("job_id", jobID))
	if job.AssignedWorkerID != nil {
		s.Notifier.Notify(ctx, *job.AssignedWorkerID, notify.Event{
			Type:    notify.EventJobCompleted,
			JobID:   jobID,
			ActorID: actor.ID,
		})
	}
	return job, nil
}

// Rate records a 1..5 rating for the job's assigned worker, once per job.
// Returns the worker with the updated rating summary.
func (s *Service) Rate(ctx context.Context, actor policy.Actor, jobID uuid.UUID, rating float64) (*models.User, error) {
	if err := policy.Check(actor, policy.ClientOnly, nil); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("Rating must be between 1 and 5")
	}

	var worker models.User
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		job, err := loadJob(tx, jobID)
		if err != nil {
			return err
		}
		if err := policy.Check(actor, policy.JobOwner, job); err != nil {
			return err
		}
		if job.Status != models.JobStatusCompleted {
			return apperrors.InvalidState("Job not completed yet")
		}
		if job.IsRated {
			return apperrors.Conflict("Job already rated")
		}
		if job.AssignedWorkerID == nil {
			return apperrors.InvalidState("Job has no assigned worker")
		}

		res := tx.Model(&models.Job{}).
			Where("id = ? AND status = ? AND is_rated = ?", jobID, models.JobStatusCompleted, false).
			Update("is_rated", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("Job already rated")
		}

		// single statement so the summary stays consistent under concurrent ratings
		res = tx.Model(&models.User{}).
			Where("id = ?", *job.AssignedWorkerID).
			Updates(map[string]any{
				"total_rating": gorm.Expr("total_rating + ?", rating),
				"rating_count": gorm.Expr("rating_count + 1"),
				"rating":       gorm.Expr("(total_rating + ?) / (rating_count + 1)", rating),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("Worker not found")
		}

		return tx.First(&worker, "id = ?", *job.AssignedWorkerID).Error
	})
	if err != nil {
		return nil, s.fail("rate", jobID, err)
	}

	s.Log.Info("worker rated",
		zap.Stringer("job_id", jobID),
		zap.Stringer("worker_id", worker.ID),
		zap.Float64("rating", rating),
	)
	s.Notifier.Notify(ctx, worker.ID, notify.Event{
		Type:    notify.EventJobRated,
		JobID:   jobID,
		ActorID: actor.ID,
		Payload: map[string]any{"rating": rating, "average": worker.Rating},
	})
	return &worker, nil
}

// ListOpenRanked returns the open jobs the worker's skills overlap with, best match first.
// Ranking happens before paging so the match order holds across pages. A valid status
// other than OPEN yields an empty page.
func (s *Service) ListOpenRanked(ctx context.Context, actor policy.Actor, f ListFilter) (*RankedPage, error) {
	if err := policy.Check(actor, policy.WorkerOnly, nil); err != nil {
		return nil, err
	}

	st, err := parseStatus(f.Status)
	if err != nil {
		return nil, err
	}
	p := utils.NewPagination(f.Page, f.Limit)

	profile, err := s.Workers.ByUser(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("Worker profile incomplete")
		}
		return nil, err
	}

	if st != "" && st != models.JobStatusOpen {
		return &RankedPage{Items: []matching.Ranked{}, Meta: p.Meta(0)}, nil
	}

	var open []models.Job
	err = s.DB.WithContext(ctx).
		Preload("Client", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone")
		}).
		Where("status = ?", models.JobStatusOpen).
		Order("created_at ASC").
		Order("id ASC").
		Find(&open).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	ranked := matching.Rank(open, profile.Skills)
	total := int64(len(ranked))

	items := []matching.Ranked{}
	if start := p.Offset(); int64(start) < total {
		end := start + p.Limit
		if end > len(ranked) {
			end = len(ranked)
		}
		items = ranked[start:end]
	}
	return &RankedPage{Items: items, Meta: p.Meta(total)}, nil
}

type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

type Page struct {
	Items []models.Job
	Meta  utils.PageMeta
}

type RankedPage struct {
	Items []matching.Ranked
	Meta  utils.PageMeta
}

// parseStatus returns "" for an empty filter.
func parseStatus(raw string) (models.JobStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	st, err := models.ParseJobStatus(raw)
	if err != nil {
		return "", apperrors.ValidationFields("Invalid status", map[string][]string{
			"status": {"must be one of: OPEN IN_PROGRESS COMPLETED"},
		})
	}
	return st, nil
}

// MyJobs lists the jobs assigned to a worker.
func (s *Service) MyJobs(ctx context.Context, actor policy.Actor, f ListFilter) (*Page, error) {
	if err := policy.Check(actor, policy.WorkerOnly, nil); err != nil {
		return nil, err
	}
	return s.list(ctx, f, func(db *gorm.DB) *gorm.DB {
		return db.Where("assigned_worker_id = ?", actor.ID).
			Preload("Client", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "phone")
			})
	})
}

// MyClientJobs lists the jobs a client has posted, with their applications.
func (s *Service) MyClientJobs(ctx context.Context, actor policy.Actor, f ListFilter) (*Page, error) {
	if err := policy.Check(actor, policy.ClientOnly, nil); err != nil {
		return nil, err
	}
	return s.list(ctx, f, func(db *gorm.DB) *gorm.DB {
		return db.Where("client_id = ?", actor.ID).
			Preload("Applications", func(db *gorm.DB) *gorm.DB {
				return db.Order("applied_at ASC")
			}).
			Preload("Applications.Worker", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "phone", "rating")
			}).
			Preload("AssignedWorker", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "phone", "rating")
			})
	})
}

func (s *Service) list(ctx context.Context, f ListFilter, scope func(*gorm.DB) *gorm.DB) (*Page, error) {
	q := scope(s.DB.WithContext(ctx).Model(&models.Job{}))

	st, err := parseStatus(f.Status)
	if err != nil {
		return nil, err
	}
	if st != "" {
		q = q.Where("status = ?", st)
	}

	p := utils.NewPagination(f.Page, f.Limit)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	items := make([]models.Job, 0, p.Limit)
	if err := q.Session(&gorm.Session{}).
		Order("created_at ASC").
		Order("id ASC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&items).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &Page{Items: items, Meta: p.Meta(total)}, nil
}

// fail logs unexpected errors and converts everything to an AppError.
func (s *Service) fail(op string, jobID uuid.UUID, err error) error {
	appErr := apperrors.As(err)
	if appErr.Code == apperrors.CodeInternalError {
		s.Log.Error("job "+op+" failed", zap.Stringer("job_id", jobID), zap.Error(err))
	}
	return appErr
}
