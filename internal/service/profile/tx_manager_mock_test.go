package profile

import (
	"context"
	"sync"
)

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInSnapshotFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	RunInTxFunc       func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInSnapshot []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
		RunInTx []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
	}
	lockRunInSnapshot sync.RWMutex
	lockRunInTx       sync.RWMutex
}

func (mock *txManagerMock) RunInSnapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInSnapshotFunc == nil {
		panic("txManagerMock.RunInSnapshotFunc: method is nil but txManager.RunInSnapshot was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{
		Ctx: ctx,
		Fn:  fn,
	}
	mock.lockRunInSnapshot.Lock()
	mock.calls.RunInSnapshot = append(mock.calls.RunInSnapshot, callInfo)
	mock.lockRunInSnapshot.Unlock()
	return mock.RunInSnapshotFunc(ctx, fn)
}

func (mock *txManagerMock) RunInSnapshotCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInSnapshot.RLock()
	calls := mock.calls.RunInSnapshot
	mock.lockRunInSnapshot.RUnlock()
	return calls
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{
		Ctx: ctx,
		Fn:  fn,
	}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}
