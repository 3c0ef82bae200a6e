package service

import (
	"context"

	"go.uber.org/zap"
)

// CodeSender delivers verification codes to users. Email delivery is an
// external collaborator; implementations plug in here.
type CodeSender interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// LogCodeSender writes codes to the log instead of sending mail. Used in
// development and tests.
type LogCodeSender struct {
	logger *zap.Logger
}

// NewLogCodeSender creates a CodeSender backed by the logger
func NewLogCodeSender(logger *zap.Logger) *LogCodeSender {
	return &LogCodeSender{logger: logger}
}

func (s *LogCodeSender) SendVerificationCode(ctx context.Context, email, code string) error {
	s.logger.Info("Verification code issued",
		zap.String("email", email),
		zap.String("code", code),
	)
	return nil
}
