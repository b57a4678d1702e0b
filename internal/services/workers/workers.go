package workers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/policy"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
	"github.com/Windi-Fikriyansyah/workly_be/internal/validator"
)

type Service struct {
	DB  *gorm.DB
	Log *zap.Logger
	V   *validator.Validator
}

func NewService(db *gorm.DB, log *zap.Logger, v *validator.Validator) *Service {
	return &Service{DB: db, Log: log, V: v}
}

// CreateProfileInput uses a pointer for experience so that 0 years is accepted but absence is not.
type CreateProfileInput struct {
	Skills     []string `json:"skills" validate:"required,min=1,dive,required"`
	Experience *float64 `json:"experience" validate:"required,gte=0"`
	Location   string   `json:"location" validate:"required"`
	HourlyRate float64  `json:"hourlyRate" validate:"required,gt=0"`
}

func (s *Service) CreateProfile(ctx context.Context, actor policy.Actor, in CreateProfileInput) (*models.WorkerProfile, error) {
	if err := policy.Check(actor, policy.WorkerOnly, nil); err != nil {
		return nil, err
	}

	var existing models.WorkerProfile
	err := s.DB.WithContext(ctx).Where("user_id = ?", actor.ID).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("Worker profile already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	in.Skills = utils.TrimAll(in.Skills)
	in.Location = strings.TrimSpace(in.Location)
	if err := s.V.Validate(in); err != nil {
		return nil, err
	}

	p := models.WorkerProfile{
		UserID:     actor.ID,
		Skills:     in.Skills,
		Experience: *in.Experience,
		Location:   in.Location,
		HourlyRate: in.HourlyRate,
	}
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("Worker profile already exists")
		}
		return nil, apperrors.Internal(err)
	}

	s.Log.Info("worker profile created", zap.Stringer("user_id", actor.ID))
	return &p, nil
}

// List returns every profile with its owner's name and phone.
func (s *Service) List(ctx context.Context) ([]models.WorkerProfile, error) {
	var out []models.WorkerProfile
	err := s.DB.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "phone")
		}).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

// ByUser returns the profile of userID; ErrRecordNotFound maps to NotFound.
func (s *Service) ByUser(ctx context.Context, userID uuid.UUID) (*models.WorkerProfile, error) {
	var p models.WorkerProfile
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, apperrors.FromDB(err, "Worker profile")
	}
	return &p, nil
}
