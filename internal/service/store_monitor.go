package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Database is the connection the monitor keeps alive.
type Database interface {
	Connected() bool
	Ping(ctx context.Context) error
	Connect(ctx context.Context) error
}

// StoreMonitor reconnects the database when it is missing or stops answering.
// Requests served in the meantime get the storage unavailable reply.
type StoreMonitor struct {
	db      Database
	timeout time.Duration
	logger  *zap.Logger
}

func NewStoreMonitor(db Database, timeout time.Duration, logger *zap.Logger) *StoreMonitor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreMonitor{db: db, timeout: timeout, logger: logger}
}

// Check pings the database and reconnects it when needed.
func (m *StoreMonitor) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if m.db.Connected() {
		err := m.db.Ping(ctx)
		if err == nil {
			return nil
		}
		m.logger.Warn("database ping failed", zap.Error(err))
	}

	if err := m.db.Connect(ctx); err != nil {
		m.logger.Warn("database still unavailable", zap.Error(err))
		return err
	}
	m.logger.Info("database reconnected")
	return nil
}

// Schedule runs Check on the scheduler every interval.
func (m *StoreMonitor) Schedule(s *SchedulerService, interval time.Duration) error {
	_, err := s.ScheduleInterval(interval, func() {
		_ = m.Check(context.Background())
	})
	return err
}
