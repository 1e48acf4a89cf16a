package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
	"github.com/spec-kit/jobops-service/internal/repository"
)

// AuditService appends audit log entries for every tracked mutation. It
// subscribes to domain events and writes independently; nothing in the core
// reads the log back.
type AuditService struct {
	audit      repository.AuditLogRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(auditRepo repository.AuditLogRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{audit: auditRepo, dispatcher: dispatcher, logger: logger}
}

var auditedEvents = map[events.EventType]domain.AuditAction{
	events.EventJobCreated:        domain.AuditActionCreate,
	events.EventJobUpdated:        domain.AuditActionUpdate,
	events.EventJobDeleted:        domain.AuditActionDelete,
	events.EventJobStatusChanged:  domain.AuditActionStatusChange,
	events.EventTaskCreated:       domain.AuditActionCreate,
	events.EventTaskUpdated:       domain.AuditActionUpdate,
	events.EventTaskDeleted:       domain.AuditActionDelete,
	events.EventTaskStatusChanged: domain.AuditActionStatusChange,
	events.EventEquipmentCreated:  domain.AuditActionCreate,
	events.EventEquipmentUpdated:  domain.AuditActionUpdate,
	events.EventEquipmentDeleted:  domain.AuditActionDelete,
	events.EventUserCreated:       domain.AuditActionCreate,
	events.EventUserUpdated:       domain.AuditActionUpdate,
	events.EventUserDeactivated:   domain.AuditActionUpdate,
}

// RegisterHandlers subscribes the recorder to every tracked mutation event.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for eventType := range auditedEvents {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	action, ok := auditedEvents[event.Type]
	if !ok {
		return nil
	}
	entry := &domain.AuditLog{
		UserID:     event.Actor.UserID,
		Action:     action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
	}
	if event.Actor.IP != "" {
		ip := event.Actor.IP
		entry.IPAddress = &ip
	}
	if event.Change != nil {
		field := event.Change.Field
		oldValue := event.Change.OldValue
		newValue := event.Change.NewValue
		entry.FieldName = &field
		entry.OldValue = &oldValue
		entry.NewValue = &newValue
	}
	if err := a.audit.Create(ctx, entry); err != nil {
		a.logger.Error("audit write failed",
			zap.String("event_type", string(event.Type)),
			zap.String("entity_id", event.EntityID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
