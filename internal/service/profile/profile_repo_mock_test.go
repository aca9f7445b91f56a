package profile

import (
	"context"
	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/google/uuid"
	"sync"
	"time"
)

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	CreateFunc      func(ctx context.Context, profile *domain.IdentityProfile) (*domain.IdentityProfile, error)
	GetByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*domain.IdentityProfile, error)
	UpdateFunc      func(ctx context.Context, userID uuid.UUID, doc domain.ProfileDocument, updatedAt time.Time) (*domain.IdentityProfile, error)

	calls struct {
		Create []struct {
			Ctx     context.Context
			Profile *domain.IdentityProfile
		}
		GetByUserID []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		Update []struct {
			Ctx       context.Context
			UserID    uuid.UUID
			Doc       domain.ProfileDocument
			UpdatedAt time.Time
		}
	}
	lockCreate      sync.RWMutex
	lockGetByUserID sync.RWMutex
	lockUpdate      sync.RWMutex
}

func (mock *profileRepoMock) Create(ctx context.Context, profile *domain.IdentityProfile) (*domain.IdentityProfile, error) {
	if mock.CreateFunc == nil {
		panic("profileRepoMock.CreateFunc: method is nil but profileRepo.Create was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Profile *domain.IdentityProfile
	}{
		Ctx:     ctx,
		Profile: profile,
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, profile)
}

func (mock *profileRepoMock) CreateCalls() []struct {
	Ctx     context.Context
	Profile *domain.IdentityProfile
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *profileRepoMock) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.IdentityProfile, error) {
	if mock.GetByUserIDFunc == nil {
		panic("profileRepoMock.GetByUserIDFunc: method is nil but profileRepo.GetByUserID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockGetByUserID.Lock()
	mock.calls.GetByUserID = append(mock.calls.GetByUserID, callInfo)
	mock.lockGetByUserID.Unlock()
	return mock.GetByUserIDFunc(ctx, userID)
}

func (mock *profileRepoMock) GetByUserIDCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockGetByUserID.RLock()
	calls := mock.calls.GetByUserID
	mock.lockGetByUserID.RUnlock()
	return calls
}

func (mock *profileRepoMock) Update(ctx context.Context, userID uuid.UUID, doc domain.ProfileDocument, updatedAt time.Time) (*domain.IdentityProfile, error) {
	if mock.UpdateFunc == nil {
		panic("profileRepoMock.UpdateFunc: method is nil but profileRepo.Update was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		UserID    uuid.UUID
		Doc       domain.ProfileDocument
		UpdatedAt time.Time
	}{
		Ctx:       ctx,
		UserID:    userID,
		Doc:       doc,
		UpdatedAt: updatedAt,
	}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, userID, doc, updatedAt)
}

func (mock *profileRepoMock) UpdateCalls() []struct {
	Ctx       context.Context
	UserID    uuid.UUID
	Doc       domain.ProfileDocument
	UpdatedAt time.Time
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}
