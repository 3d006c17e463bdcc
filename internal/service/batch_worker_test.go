package service_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/service"
	"invoicecheck/mocks"
)

func TestBatchWorker_RunsOnInterval(t *testing.T) {
	batch := new(mocks.MockBatchService)
	batch.On("Run", mock.Anything).Return(&service.BatchResult{Status: "success"}, nil)

	worker := service.NewBatchWorker(batch, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one tick
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	batch.AssertCalled(t, "Run", mock.Anything)
}

func TestBatchWorker_SkipsTickWhileRunning(t *testing.T) {
	batch := new(mocks.MockBatchService)
	var calls atomic.Int32
	release := make(chan struct{})
	batch.On("Run", mock.Anything).
		Run(func(mock.Arguments) {
			calls.Add(1)
			<-release
		}).
		Return(&service.BatchResult{Status: "success"}, nil)

	worker := service.NewBatchWorker(batch, 20*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "only one batch may be in flight")

	cancel()
	select {
	case <-done:
		t.Fatal("worker returned before the in-flight batch finished")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	<-done
}

func TestBatchWorker_KeepsPollingAfterFailure(t *testing.T) {
	batch := new(mocks.MockBatchService)
	batch.On("Run", mock.Anything).Return(nil, domain.ErrSourceUnavailable)

	worker := service.NewBatchWorker(batch, 30*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	assert.GreaterOrEqual(t, len(batch.Calls), 2)
}
