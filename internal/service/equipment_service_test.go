package service

import (
	"context"
	"testing"

	"github.com/spec-kit/jobops-service/internal/domain"
	"github.com/spec-kit/jobops-service/internal/repository"
)

func TestCreateEquipmentRejectsDuplicateSerial(t *testing.T) {
	svc := NewEquipmentService(newFakeEquipmentRepo(), nil)

	if _, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{
		Name: "Drill", Type: domain.EquipmentTypeTool, SerialNumber: "SN-1",
	}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{
		Name: "Other drill", Type: domain.EquipmentTypeTool, SerialNumber: "SN-1",
	})
	if err == nil {
		t.Fatal("expected serial conflict")
	}
	if err.Error() != "Equipment with serial number SN-1 already exists." {
		t.Fatalf("unexpected conflict message: %q", err.Error())
	}
}

func TestCreateEquipmentRequiresSerial(t *testing.T) {
	svc := NewEquipmentService(newFakeEquipmentRepo(), nil)

	if _, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{Name: "Drill"}); err == nil {
		t.Fatal("expected validation error for missing serial")
	}
}

func TestUpdateEquipmentKeepsOwnSerial(t *testing.T) {
	svc := NewEquipmentService(newFakeEquipmentRepo(), nil)

	created, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{
		Name: "Drill", Type: domain.EquipmentTypeTool, SerialNumber: "SN-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Re-saving with the same serial is not a conflict.
	if _, err := svc.UpdateEquipment(context.Background(), testActor, created.ID, EquipmentInput{
		Name: "Drill XL", SerialNumber: "SN-1",
	}); err != nil {
		t.Fatalf("own serial must not conflict: %v", err)
	}
}

func TestListEquipmentActiveOnly(t *testing.T) {
	repo := newFakeEquipmentRepo()
	svc := NewEquipmentService(repo, nil)

	active, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{
		Name: "Drill", Type: domain.EquipmentTypeTool, SerialNumber: "SN-1",
	})
	if err != nil {
		t.Fatal(err)
	}
	inactive := false
	if _, err := svc.CreateEquipment(context.Background(), testActor, EquipmentInput{
		Name: "Old van", Type: domain.EquipmentTypeVehicle, SerialNumber: "SN-2", Active: &inactive,
	}); err != nil {
		t.Fatal(err)
	}

	items, err := svc.ListEquipment(context.Background(), repository.EquipmentFilter{ActiveOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != active.ID {
		t.Fatalf("expected only the active entry, got %+v", items)
	}
}
