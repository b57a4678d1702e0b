package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
	"github.com/Windi-Fikriyansyah/workly_be/internal/utils"
	"github.com/Windi-Fikriyansyah/workly_be/internal/validator"
)

type Service struct {
	DB        *gorm.DB
	Log       *zap.Logger
	V         *validator.Validator
	JWTSecret string
	Expires   int // minutes
}

func NewService(db *gorm.DB, log *zap.Logger, v *validator.Validator, jwtSecret string, expiresMin int) *Service {
	return &Service{DB: db, Log: log, V: v, JWTSecret: jwtSecret, Expires: expiresMin}
}

type Location struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type RegisterInput struct {
	Name     string    `json:"name" validate:"required"`
	Phone    string    `json:"phone" validate:"required"`
	Role     string    `json:"role" validate:"required"`
	Location *Location `json:"location" validate:"omitempty"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.V.Validate(in); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" || strings.TrimSpace(in.Role) == "" {
		return nil, apperrors.Validation("Name, phone and role are required")
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, apperrors.ValidationFields("Validation error", map[string][]string{
			"role": {"must be one of: worker client"},
		})
	}

	var existing models.User
	err = s.DB.WithContext(ctx).Where("phone = ?", phone).First(&existing).Error
	if err == nil {
		return nil, apperrors.Conflict("User already exists with this phone number")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal(err)
	}

	u := models.User{
		Name:  name,
		Phone: phone,
		Role:  role,
	}
	if in.Location != nil {
		u.LocationLat = &in.Location.Lat
		u.LocationLng = &in.Location.Lng
	}

	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("User already exists with this phone number")
		}
		return nil, apperrors.Internal(err)
	}

	s.Log.Info("user registered", zap.Stringer("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// Login finds the user by phone and issues a token bound to the user's id and role.
func (s *Service) Login(ctx context.Context, phone string) (string, *models.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", nil, apperrors.Validation("Phone number is required")
	}

	var u models.User
	if err := s.DB.WithContext(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.NotFound("User not found")
		}
		return "", nil, apperrors.Internal(err)
	}

	token, err := utils.SignJWT(s.JWTSecret, u.ID, u.Role, s.Expires)
	if err != nil {
		return "", nil, apperrors.Internal(err)
	}
	return token, &u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, apperrors.FromDB(err, "User")
	}
	return &u, nil
}
