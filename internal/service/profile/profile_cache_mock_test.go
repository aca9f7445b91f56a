package profile

import (
	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/google/uuid"
	"sync"
)

var _ profileCache = &profileCacheMock{}

type profileCacheMock struct {
	GetFunc        func(userID uuid.UUID) (*domain.IdentityProfile, uint64, bool)
	InvalidateFunc func(userID uuid.UUID)
	SetFunc        func(profile *domain.IdentityProfile, generation uint64)

	calls struct {
		Get []struct {
			UserID uuid.UUID
		}
		Invalidate []struct {
			UserID uuid.UUID
		}
		Set []struct {
			Profile    *domain.IdentityProfile
			Generation uint64
		}
	}
	lockGet        sync.RWMutex
	lockInvalidate sync.RWMutex
	lockSet        sync.RWMutex
}

func (mock *profileCacheMock) Get(userID uuid.UUID) (*domain.IdentityProfile, uint64, bool) {
	if mock.GetFunc == nil {
		panic("profileCacheMock.GetFunc: method is nil but profileCache.Get was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
	}{
		UserID: userID,
	}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(userID)
}

func (mock *profileCacheMock) GetCalls() []struct {
	UserID uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *profileCacheMock) Invalidate(userID uuid.UUID) {
	if mock.InvalidateFunc == nil {
		panic("profileCacheMock.InvalidateFunc: method is nil but profileCache.Invalidate was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
	}{
		UserID: userID,
	}
	mock.lockInvalidate.Lock()
	mock.calls.Invalidate = append(mock.calls.Invalidate, callInfo)
	mock.lockInvalidate.Unlock()
	mock.InvalidateFunc(userID)
}

func (mock *profileCacheMock) InvalidateCalls() []struct {
	UserID uuid.UUID
} {
	mock.lockInvalidate.RLock()
	calls := mock.calls.Invalidate
	mock.lockInvalidate.RUnlock()
	return calls
}

func (mock *profileCacheMock) Set(profile *domain.IdentityProfile, generation uint64) {
	if mock.SetFunc == nil {
		panic("profileCacheMock.SetFunc: method is nil but profileCache.Set was just called")
	}
	callInfo := struct {
		Profile    *domain.IdentityProfile
		Generation uint64
	}{
		Profile:    profile,
		Generation: generation,
	}
	mock.lockSet.Lock()
	mock.calls.Set = append(mock.calls.Set, callInfo)
	mock.lockSet.Unlock()
	mock.SetFunc(profile, generation)
}

func (mock *profileCacheMock) SetCalls() []struct {
	Profile    *domain.IdentityProfile
	Generation uint64
} {
	mock.lockSet.RLock()
	calls := mock.calls.Set
	mock.lockSet.RUnlock()
	return calls
}
