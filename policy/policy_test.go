package policy

import (
	"testing"

	"ferim-server/models"
)

func uintPtr(v uint) *uint { return &v }

func TestRoleGates(t *testing.T) {
	owner := Actor{ID: 1, Role: models.RoleOwner}
	tenant := Actor{ID: 2, Role: models.RoleTenant}
	technician := Actor{ID: 3, Role: models.RoleTechnician}
	anonymous := Actor{}

	cases := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"any authenticated user creates properties", owner, ActionCreateProperty, true},
		{"technician creates properties too", technician, ActionCreateProperty, true},
		{"anonymous cannot create properties", anonymous, ActionCreateProperty, false},

		{"tenant creates reservations", tenant, ActionCreateReservation, true},
		{"owner cannot create reservations", owner, ActionCreateReservation, false},
		{"technician cannot create reservations", technician, ActionCreateReservation, false},

		{"tenant lists own reservations", tenant, ActionListOwnReservations, true},
		{"owner lists reservations on their properties", owner, ActionListOwnedReservations, true},
		{"tenant cannot use owner listing", tenant, ActionListOwnedReservations, false},

		{"tenant reports maintenance", tenant, ActionCreateMaintenance, true},
		{"owner reports maintenance", owner, ActionCreateMaintenance, true},
		{"technician cannot report maintenance", technician, ActionCreateMaintenance, false},

		{"technician lists assigned requests", technician, ActionListAssignedMaintenance, true},
		{"tenant cannot list assigned requests", tenant, ActionListAssignedMaintenance, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allowed(tc.actor, tc.action, nil); got != tc.want {
				t.Fatalf("Allowed(%v, %s) = %v, want %v", tc.actor, tc.action, got, tc.want)
			}
		})
	}
}

func TestPropertyImageDeletionOwnership(t *testing.T) {
	property := &models.Property{OwnerID: 7}

	if !Allowed(Actor{ID: 7, Role: models.RoleOwner}, ActionDeletePropertyImage, property) {
		t.Error("expected the property's owner to be allowed")
	}
	if Allowed(Actor{ID: 8, Role: models.RoleOwner}, ActionDeletePropertyImage, property) {
		t.Error("expected a different owner to be denied")
	}
	if Allowed(Actor{ID: 7, Role: models.RoleOwner}, ActionDeletePropertyImage, nil) {
		t.Error("expected a missing resource to be denied")
	}
}

func TestReservationTransitionOwnership(t *testing.T) {
	reservation := &models.Reservation{OwnerID: 10}

	if !Allowed(Actor{ID: 10, Role: models.RoleOwner}, ActionTransitionReservation, reservation) {
		t.Error("expected the reservation's owner to be allowed")
	}
	if Allowed(Actor{ID: 11, Role: models.RoleOwner}, ActionTransitionReservation, reservation) {
		t.Error("expected a different owner to be denied")
	}
	if Allowed(Actor{ID: 10, Role: models.RoleTenant}, ActionTransitionReservation, reservation) {
		t.Error("expected a tenant to be denied even with a matching id")
	}
	if Allowed(Actor{ID: 10, Role: models.RoleOwner}, ActionTransitionReservation, nil) {
		t.Error("expected a missing resource to be denied")
	}
}

func TestMaintenanceTransitionAccess(t *testing.T) {
	assigned := MaintenanceResource{
		Request:         &models.MaintenanceRequest{AssignedToID: uintPtr(3)},
		PropertyOwnerID: 1,
	}
	unassigned := MaintenanceResource{
		Request:         &models.MaintenanceRequest{},
		PropertyOwnerID: 1,
	}

	if !Allowed(Actor{ID: 3, Role: models.RoleTechnician}, ActionTransitionMaintenance, assigned) {
		t.Error("expected the assigned technician to be allowed")
	}
	if !Allowed(Actor{ID: 1, Role: models.RoleOwner}, ActionTransitionMaintenance, assigned) {
		t.Error("expected the property owner to be allowed")
	}
	if Allowed(Actor{ID: 4, Role: models.RoleTechnician}, ActionTransitionMaintenance, assigned) {
		t.Error("expected an unassigned technician to be denied")
	}
	if Allowed(Actor{ID: 3, Role: models.RoleTechnician}, ActionTransitionMaintenance, unassigned) {
		t.Error("expected a technician to be denied when nobody is assigned")
	}
	if Allowed(Actor{ID: 2, Role: models.RoleTenant}, ActionTransitionMaintenance, unassigned) {
		t.Error("expected the reporter to be denied status changes")
	}
	if Allowed(Actor{ID: 1, Role: models.RoleOwner}, ActionTransitionMaintenance, MaintenanceResource{}) {
		t.Error("expected a missing request to be denied")
	}
}
