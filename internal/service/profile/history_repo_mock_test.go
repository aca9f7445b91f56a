package profile

import (
	"context"
	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/google/uuid"
	"sync"
)

var _ historyRepo = &historyRepoMock{}

type historyRepoMock struct {
	AppendFunc      func(ctx context.Context, entry *domain.HistoryEntry) error
	CountByUserFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	GetByIDFunc     func(ctx context.Context, historyID int64) (*domain.HistoryEntry, error)
	ListFunc        func(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.HistoryEntry, error)

	calls struct {
		Append []struct {
			Ctx   context.Context
			Entry *domain.HistoryEntry
		}
		CountByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
		}
		GetByID []struct {
			Ctx       context.Context
			HistoryID int64
		}
		List []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
			Offset int
		}
	}
	lockAppend      sync.RWMutex
	lockCountByUser sync.RWMutex
	lockGetByID     sync.RWMutex
	lockList        sync.RWMutex
}

func (mock *historyRepoMock) Append(ctx context.Context, entry *domain.HistoryEntry) error {
	if mock.AppendFunc == nil {
		panic("historyRepoMock.AppendFunc: method is nil but historyRepo.Append was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Entry *domain.HistoryEntry
	}{
		Ctx:   ctx,
		Entry: entry,
	}
	mock.lockAppend.Lock()
	mock.calls.Append = append(mock.calls.Append, callInfo)
	mock.lockAppend.Unlock()
	return mock.AppendFunc(ctx, entry)
}

func (mock *historyRepoMock) AppendCalls() []struct {
	Ctx   context.Context
	Entry *domain.HistoryEntry
} {
	mock.lockAppend.RLock()
	calls := mock.calls.Append
	mock.lockAppend.RUnlock()
	return calls
}

func (mock *historyRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if mock.CountByUserFunc == nil {
		panic("historyRepoMock.CountByUserFunc: method is nil but historyRepo.CountByUser was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
	}{
		Ctx:    ctx,
		UserID: userID,
	}
	mock.lockCountByUser.Lock()
	mock.calls.CountByUser = append(mock.calls.CountByUser, callInfo)
	mock.lockCountByUser.Unlock()
	return mock.CountByUserFunc(ctx, userID)
}

func (mock *historyRepoMock) CountByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
} {
	mock.lockCountByUser.RLock()
	calls := mock.calls.CountByUser
	mock.lockCountByUser.RUnlock()
	return calls
}

func (mock *historyRepoMock) GetByID(ctx context.Context, historyID int64) (*domain.HistoryEntry, error) {
	if mock.GetByIDFunc == nil {
		panic("historyRepoMock.GetByIDFunc: method is nil but historyRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		HistoryID int64
	}{
		Ctx:       ctx,
		HistoryID: historyID,
	}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, historyID)
}

func (mock *historyRepoMock) GetByIDCalls() []struct {
	Ctx       context.Context
	HistoryID int64
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *historyRepoMock) List(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.HistoryEntry, error) {
	if mock.ListFunc == nil {
		panic("historyRepoMock.ListFunc: method is nil but historyRepo.List was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID uuid.UUID
		Limit  int
		Offset int
	}{
		Ctx:    ctx,
		UserID: userID,
		Limit:  limit,
		Offset: offset,
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, userID, limit, offset)
}

func (mock *historyRepoMock) ListCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
	Offset int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}
