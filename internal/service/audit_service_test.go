package service

import (
	"context"
	"testing"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/events"
)

func TestAuditRecordsStatusChangeWithFieldDiff(t *testing.T) {
	audit := &fakeAuditRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(audit, dispatcher, nil).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:         "event-1",
		Type:       events.EventTaskStatusChanged,
		EntityType: "JobTask",
		EntityID:   "task-1",
		Actor:      events.Actor{UserID: "user-1", IP: "10.0.0.1"},
		Change: &events.FieldChange{
			Field:    "status",
			OldValue: "pending",
			NewValue: "completed",
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Action != domain.AuditActionStatusChange {
		t.Fatalf("expected status_change action, got %s", entry.Action)
	}
	if entry.UserID != "user-1" || entry.EntityID != "task-1" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.FieldName == nil || *entry.FieldName != "status" {
		t.Fatal("field diff must be recorded")
	}
	if entry.OldValue == nil || *entry.OldValue != "pending" || entry.NewValue == nil || *entry.NewValue != "completed" {
		t.Fatalf("old/new values must be recorded: %+v", entry)
	}
	if entry.IPAddress == nil || *entry.IPAddress != "10.0.0.1" {
		t.Fatal("actor IP must be recorded")
	}
}

func TestAuditIgnoresUntrackedEvents(t *testing.T) {
	audit := &fakeAuditRepo{}
	dispatcher := events.NewInMemoryDispatcher()
	NewAuditService(audit, dispatcher, nil).RegisterHandlers()

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:       events.EventType("something_else"),
		EntityType: "Job",
		EntityID:   "job-1",
	})
	if len(audit.entries) != 0 {
		t.Fatalf("untracked events must not be audited, got %d entries", len(audit.entries))
	}
}
