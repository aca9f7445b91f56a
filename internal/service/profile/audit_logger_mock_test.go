package profile

import (
	"context"
	"github.com/forge-journal/forge-identity/internal/domain"
	"github.com/google/uuid"
	"sync"
)

var _ auditLogger = &auditLoggerMock{}

type auditLoggerMock struct {
	GetByUserFunc func(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.AuditRecord, error)
	LogFunc       func(ctx context.Context, record domain.AuditRecord) error

	calls struct {
		GetByUser []struct {
			Ctx    context.Context
			UserID uuid.UUID
			Limit  int
			Offset int
		}
		Log []struct {
			Ctx    context.Context
			Record domain.AuditRecord
		}
	}
	lockGetByUser sync.RWMutex
	lockLog       sync.RWMutex
}

func (mock *auditLoggerMock) GetByUser(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]domain.AuditRecord, error) {
	if mock.GetByUserFunc == nil {
		panic("auditLoggerMock.GetByUserFunc: method is nil but auditLogger.GetByUser was just called")
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
	mock.lockGetByUser.Lock()
	mock.calls.GetByUser = append(mock.calls.GetByUser, callInfo)
	mock.lockGetByUser.Unlock()
	return mock.GetByUserFunc(ctx, userID, limit, offset)
}

func (mock *auditLoggerMock) GetByUserCalls() []struct {
	Ctx    context.Context
	UserID uuid.UUID
	Limit  int
	Offset int
} {
	mock.lockGetByUser.RLock()
	calls := mock.calls.GetByUser
	mock.lockGetByUser.RUnlock()
	return calls
}

func (mock *auditLoggerMock) Log(ctx context.Context, record domain.AuditRecord) error {
	if mock.LogFunc == nil {
		panic("auditLoggerMock.LogFunc: method is nil but auditLogger.Log was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record domain.AuditRecord
	}{
		Ctx:    ctx,
		Record: record,
	}
	mock.lockLog.Lock()
	mock.calls.Log = append(mock.calls.Log, callInfo)
	mock.lockLog.Unlock()
	return mock.LogFunc(ctx, record)
}

func (mock *auditLoggerMock) LogCalls() []struct {
	Ctx    context.Context
	Record domain.AuditRecord
} {
	mock.lockLog.RLock()
	calls := mock.calls.Log
	mock.lockLog.RUnlock()
	return calls
}
