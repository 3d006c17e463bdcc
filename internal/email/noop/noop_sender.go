package noop

import (
	"context"

	"go.uber.org/zap"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/email"
	"invoicecheck/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates an EmailSender that only logs what it would send.
func NewNoopSender(logger *zap.Logger) port.EmailSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &noopSender{logger: logger}
}

func (s *noopSender) SendBatchSummary(_ context.Context, toEmail string, summary *domain.BatchSummary) error {
	s.logger.Info("noop email: batch summary",
		zap.String("to", toEmail),
		zap.String("subject", email.BatchSubject(summary)),
		zap.Strings("failed_bills", summary.FailedBills),
	)
	return nil
}
