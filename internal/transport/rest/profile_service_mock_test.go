package rest

import (
	"context"
	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/forge-journal/forge-identity/internal/service/profile"
	"sync"
)

var _ profileService = &profileServiceMock{}

type profileServiceMock struct {
	AuditTrailFunc    func(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error)
	CompareFunc       func(ctx context.Context, input profile.CompareInput) (*domain.ComparisonResult, error)
	GetProfileFunc    func(ctx context.Context) (*domain.IdentityProfile, error)
	GetSnapshotFunc   func(ctx context.Context, historyID int64) (*domain.HistoryEntry, error)
	ListHistoryFunc   func(ctx context.Context, input profile.ListHistoryInput) (*domain.HistoryPage, error)
	RestoreFunc       func(ctx context.Context, historyID int64) (*domain.SaveResult, error)
	SaveProfileFunc   func(ctx context.Context, input profile.SaveProfileInput) (*domain.SaveResult, error)
	UpdateSectionFunc func(ctx context.Context, input profile.UpdateSectionInput) (*domain.SaveResult, error)

	calls struct {
		AuditTrail []struct {
			Ctx    context.Context
			Limit  int
			Offset int
		}
		Compare []struct {
			Ctx   context.Context
			Input profile.CompareInput
		}
		GetProfile []struct {
			Ctx context.Context
		}
		GetSnapshot []struct {
			Ctx       context.Context
			HistoryID int64
		}
		ListHistory []struct {
			Ctx   context.Context
			Input profile.ListHistoryInput
		}
		Restore []struct {
			Ctx       context.Context
			HistoryID int64
		}
		SaveProfile []struct {
			Ctx   context.Context
			Input profile.SaveProfileInput
		}
		UpdateSection []struct {
			Ctx   context.Context
			Input profile.UpdateSectionInput
		}
	}
	lockAuditTrail    sync.RWMutex
	lockCompare       sync.RWMutex
	lockGetProfile    sync.RWMutex
	lockGetSnapshot   sync.RWMutex
	lockListHistory   sync.RWMutex
	lockRestore       sync.RWMutex
	lockSaveProfile   sync.RWMutex
	lockUpdateSection sync.RWMutex
}

func (mock *profileServiceMock) AuditTrail(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error) {
	if mock.AuditTrailFunc == nil {
		panic("profileServiceMock.AuditTrailFunc: method is nil but profileService.AuditTrail was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Limit  int
		Offset int
	}{
		Ctx:    ctx,
		Limit:  limit,
		Offset: offset,
	}
	mock.lockAuditTrail.Lock()
	mock.calls.AuditTrail = append(mock.calls.AuditTrail, callInfo)
	mock.lockAuditTrail.Unlock()
	return mock.AuditTrailFunc(ctx, limit, offset)
}

func (mock *profileServiceMock) AuditTrailCalls() []struct {
	Ctx    context.Context
	Limit  int
	Offset int
} {
	mock.lockAuditTrail.RLock()
	calls := mock.calls.AuditTrail
	mock.lockAuditTrail.RUnlock()
	return calls
}

func (mock *profileServiceMock) Compare(ctx context.Context, input profile.CompareInput) (*domain.ComparisonResult, error) {
	if mock.CompareFunc == nil {
		panic("profileServiceMock.CompareFunc: method is nil but profileService.Compare was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input profile.CompareInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockCompare.Lock()
	mock.calls.Compare = append(mock.calls.Compare, callInfo)
	mock.lockCompare.Unlock()
	return mock.CompareFunc(ctx, input)
}

func (mock *profileServiceMock) CompareCalls() []struct {
	Ctx   context.Context
	Input profile.CompareInput
} {
	mock.lockCompare.RLock()
	calls := mock.calls.Compare
	mock.lockCompare.RUnlock()
	return calls
}

func (mock *profileServiceMock) GetProfile(ctx context.Context) (*domain.IdentityProfile, error) {
	if mock.GetProfileFunc == nil {
		panic("profileServiceMock.GetProfileFunc: method is nil but profileService.GetProfile was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{
		Ctx: ctx,
	}
	mock.lockGetProfile.Lock()
	mock.calls.GetProfile = append(mock.calls.GetProfile, callInfo)
	mock.lockGetProfile.Unlock()
	return mock.GetProfileFunc(ctx)
}

func (mock *profileServiceMock) GetProfileCalls() []struct {
	Ctx context.Context
} {
	mock.lockGetProfile.RLock()
	calls := mock.calls.GetProfile
	mock.lockGetProfile.RUnlock()
	return calls
}

func (mock *profileServiceMock) GetSnapshot(ctx context.Context, historyID int64) (*domain.HistoryEntry, error) {
	if mock.GetSnapshotFunc == nil {
		panic("profileServiceMock.GetSnapshotFunc: method is nil but profileService.GetSnapshot was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		HistoryID int64
	}{
		Ctx:       ctx,
		HistoryID: historyID,
	}
	mock.lockGetSnapshot.Lock()
	mock.calls.GetSnapshot = append(mock.calls.GetSnapshot, callInfo)
	mock.lockGetSnapshot.Unlock()
	return mock.GetSnapshotFunc(ctx, historyID)
}

func (mock *profileServiceMock) GetSnapshotCalls() []struct {
	Ctx       context.Context
	HistoryID int64
} {
	mock.lockGetSnapshot.RLock()
	calls := mock.calls.GetSnapshot
	mock.lockGetSnapshot.RUnlock()
	return calls
}

func (mock *profileServiceMock) ListHistory(ctx context.Context, input profile.ListHistoryInput) (*domain.HistoryPage, error) {
	if mock.ListHistoryFunc == nil {
		panic("profileServiceMock.ListHistoryFunc: method is nil but profileService.ListHistory was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input profile.ListHistoryInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockListHistory.Lock()
	mock.calls.ListHistory = append(mock.calls.ListHistory, callInfo)
	mock.lockListHistory.Unlock()
	return mock.ListHistoryFunc(ctx, input)
}

func (mock *profileServiceMock) ListHistoryCalls() []struct {
	Ctx   context.Context
	Input profile.ListHistoryInput
} {
	mock.lockListHistory.RLock()
	calls := mock.calls.ListHistory
	mock.lockListHistory.RUnlock()
	return calls
}

func (mock *profileServiceMock) Restore(ctx context.Context, historyID int64) (*domain.SaveResult, error) {
	if mock.RestoreFunc == nil {
		panic("profileServiceMock.RestoreFunc: method is nil but profileService.Restore was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		HistoryID int64
	}{
		Ctx:       ctx,
		HistoryID: historyID,
	}
	mock.lockRestore.Lock()
	mock.calls.Restore = append(mock.calls.Restore, callInfo)
	mock.lockRestore.Unlock()
	return mock.RestoreFunc(ctx, historyID)
}

func (mock *profileServiceMock) RestoreCalls() []struct {
	Ctx       context.Context
	HistoryID int64
} {
	mock.lockRestore.RLock()
	calls := mock.calls.Restore
	mock.lockRestore.RUnlock()
	return calls
}

func (mock *profileServiceMock) SaveProfile(ctx context.Context, input profile.SaveProfileInput) (*domain.SaveResult, error) {
	if mock.SaveProfileFunc == nil {
		panic("profileServiceMock.SaveProfileFunc: method is nil but profileService.SaveProfile was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input profile.SaveProfileInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockSaveProfile.Lock()
	mock.calls.SaveProfile = append(mock.calls.SaveProfile, callInfo)
	mock.lockSaveProfile.Unlock()
	return mock.SaveProfileFunc(ctx, input)
}

func (mock *profileServiceMock) SaveProfileCalls() []struct {
	Ctx   context.Context
	Input profile.SaveProfileInput
} {
	mock.lockSaveProfile.RLock()
	calls := mock.calls.SaveProfile
	mock.lockSaveProfile.RUnlock()
	return calls
}

func (mock *profileServiceMock) UpdateSection(ctx context.Context, input profile.UpdateSectionInput) (*domain.SaveResult, error) {
	if mock.UpdateSectionFunc == nil {
		panic("profileServiceMock.UpdateSectionFunc: method is nil but profileService.UpdateSection was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input profile.UpdateSectionInput
	}{
		Ctx:   ctx,
		Input: input,
	}
	mock.lockUpdateSection.Lock()
	mock.calls.UpdateSection = append(mock.calls.UpdateSection, callInfo)
	mock.lockUpdateSection.Unlock()
	return mock.UpdateSectionFunc(ctx, input)
}

func (mock *profileServiceMock) UpdateSectionCalls() []struct {
	Ctx   context.Context
	Input profile.UpdateSectionInput
} {
	mock.lockUpdateSection.RLock()
	calls := mock.calls.UpdateSection
	mock.lockUpdateSection.RUnlock()
	return calls
}
