package service

import (
	"context"
	"time"

	"github.com/GoTitans/titangate/internal/model"
	"github.com/GoTitans/titangate/internal/pkg/logger"
)

// AuditRepo is the durable sink for audit entries. Nil repo means
// log-only operation.
type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, tenantID string, limit int, from, to *time.Time) ([]*model.AuditLog, error)
}

// AuditService drains request audit entries off the hot path. Entries
// arrive pre-redacted from the middleware and are emitted as structured
// log records, plus persisted when a repo is attached.
type AuditService struct {
	repo    AuditRepo
	logChan chan *model.AuditLog
	done    chan struct{}
}

func NewAuditService(repo AuditRepo) *AuditService {
	svc := &AuditService{
		repo:    repo,
		logChan: make(chan *model.AuditLog, 1000),
		done:    make(chan struct{}),
	}
	go svc.processLogs()
	return svc
}

// Log enqueues an entry. When the buffer is full the entry is dropped to
// protect the request path.
func (s *AuditService) Log(entry *model.AuditLog) {
	select {
	case s.logChan <- entry:
	default:
		logger.Warn("audit log buffer full, dropping entry")
	}
}

// Recent returns persisted entries for a tenant, newest first.
func (s *AuditService) Recent(ctx context.Context, tenantID string, limit int) ([]*model.AuditLog, error) {
	if s.repo == nil {
		return []*model.AuditLog{}, nil
	}
	return s.repo.List(ctx, tenantID, limit, nil, nil)
}

func (s *AuditService) processLogs() {
	defer close(s.done)
	for entry := range s.logChan {
		logger.Info("audit",
			"request_id", entry.ID,
			"tenant_id", entry.TenantID,
			"method", entry.Method,
			"path", entry.Path,
			"status", entry.StatusCode,
			"ip", entry.IP,
			"latency_ms", entry.LatencyMs,
		)
		if s.repo != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := s.repo.Insert(ctx, entry); err != nil {
				logger.Error("audit persist failed", "error", err)
			}
			cancel()
		}
	}
}

func (s *AuditService) Close() {
	close(s.logChan)
	<-s.done
}
