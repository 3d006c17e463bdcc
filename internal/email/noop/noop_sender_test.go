package noop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/email/noop"
)

func TestNoopSender_LogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := noop.NewNoopSender(zap.New(core))

	err := sender.SendBatchSummary(context.Background(), "ops@example.com", &domain.BatchSummary{
		TotalFetched: 2, Succeeded: 1, Failed: 1, FailedBills: []string{"B-7"},
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "ops@example.com", fields["to"])
	assert.Equal(t, "Invoice batch complete: 2 processed, 1 failed", fields["subject"])
}
