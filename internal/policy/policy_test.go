package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Windi-Fikriyansyah/workly_be/internal/apperrors"
	"github.com/Windi-Fikriyansyah/workly_be/internal/models"
)

func TestCheckRoles(t *testing.T) {
	worker := Actor{ID: uuid.New(), Role: models.RoleWorker}
	client := Actor{ID: uuid.New(), Role: models.RoleClient}

	assert.NoError(t, Check(worker, WorkerOnly, nil))
	assert.NoError(t, Check(client, ClientOnly, nil))
	assert.NoError(t, Check(worker, AnyRole, nil))

	err := Check(worker, ClientOnly, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, Check(Actor{ID: uuid.New(), Role: "admin"}, AnyRole, nil), apperrors.ErrForbidden)
}

func TestCheckJobOwner(t *testing.T) {
	owner := Actor{ID: uuid.New(), Role: models.RoleClient}
	other := Actor{ID: uuid.New(), Role: models.RoleClient}
	job := &models.Job{ID: uuid.New(), ClientID: owner.ID}

	assert.NoError(t, Check(owner, JobOwner, job))
	assert.ErrorIs(t, Check(other, JobOwner, job), apperrors.ErrForbidden)
	assert.ErrorIs(t, Check(owner, JobOwner, nil), apperrors.ErrForbidden)

	// a worker never owns a job even if ids collide
	assert.ErrorIs(t, Check(Actor{ID: owner.ID, Role: models.RoleWorker}, JobOwner, job), apperrors.ErrForbidden)
}
