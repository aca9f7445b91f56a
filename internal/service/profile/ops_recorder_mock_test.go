package profile

import (
	"sync"
)

var _ opsRecorder = &opsRecorderMock{}

type opsRecorderMock struct {
	RecordOperationFunc func(operation string, outcome string)

	calls struct {
		RecordOperation []struct {
			Operation string
			Outcome   string
		}
	}
	lockRecordOperation sync.RWMutex
}

func (mock *opsRecorderMock) RecordOperation(operation string, outcome string) {
	if mock.RecordOperationFunc == nil {
		panic("opsRecorderMock.RecordOperationFunc: method is nil but opsRecorder.RecordOperation was just called")
	}
	callInfo := struct {
		Operation string
		Outcome   string
	}{
		Operation: operation,
		Outcome:   outcome,
	}
	mock.lockRecordOperation.Lock()
	mock.calls.RecordOperation = append(mock.calls.RecordOperation, callInfo)
	mock.lockRecordOperation.Unlock()
	mock.RecordOperationFunc(operation, outcome)
}

func (mock *opsRecorderMock) RecordOperationCalls() []struct {
	Operation string
	Outcome   string
} {
	mock.lockRecordOperation.RLock()
	calls := mock.calls.RecordOperation
	mock.lockRecordOperation.RUnlock()
	return calls
}
