package email

import (
	"context"

	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
)

// Sender delivers transactional mail.
type Sender interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}

// LogSender writes outgoing mail to the log instead of an SMTP relay. It is
// the default sender until a real provider is wired in.
type LogSender struct {
	cfg  config.EmailConfig
	logg *logger.Logger
}

func NewLogSender(cfg config.EmailConfig, logg *logger.Logger) *LogSender {
	return &LogSender{cfg: cfg, logg: logg}
}

func (s *LogSender) SendWelcome(ctx context.Context, to, fullName string) error {
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"to":   to,
			"from": s.cfg.FromAddress,
			"kind": "welcome",
		}), "email queued: welcome "+fullName)
	}
	return nil
}
