package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestAppendHistory(t *testing.T) {
	var request MaintenanceRequest

	first := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	if err := request.AppendHistory(MaintenanceInProgress, 7, first); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := request.AppendHistory(MaintenanceResolved, 7, first.Add(48*time.Hour)); err != nil {
		t.Fatalf("second append: %v", err)
	}

	var history []StatusChange
	if err := json.Unmarshal(request.History, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Status != MaintenanceInProgress || history[1].Status != MaintenanceResolved {
		t.Errorf("history out of order: %+v", history)
	}
	if history[1].ChangedByID != 7 {
		t.Errorf("expected changedByID 7, got %d", history[1].ChangedByID)
	}
}

func TestMaintenanceStatusValid(t *testing.T) {
	valid := []MaintenanceStatus{MaintenancePending, MaintenanceInProgress, MaintenanceResolved, MaintenanceClosed}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []MaintenanceStatus{"", "done", "in progress"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestMaintenanceTypeValid(t *testing.T) {
	for _, ty := range []MaintenanceType{MaintenancePlumbing, MaintenanceElectrical, MaintenanceStructural, MaintenancePainting, MaintenanceOtherType} {
		if !ty.Valid() {
			t.Errorf("expected %q to be valid", ty)
		}
	}
	if MaintenanceType("roofing").Valid() {
		t.Error("expected unknown type to be invalid")
	}
}
