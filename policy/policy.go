// Package policy centralizes the role and ownership checks that gate every
// mutating or listing operation. Handlers load the resource, then ask
// Allowed; nothing in here touches the database or the HTTP layer.
package policy

import (
	"ferim-server/models"
)

type Action string

const (
	ActionCreateProperty      Action = "property:create"
	ActionDeletePropertyImage Action = "property:delete_image"

	ActionCreateReservation     Action = "reservation:create"
	ActionListOwnReservations   Action = "reservation:list_tenant"
	ActionListOwnedReservations Action = "reservation:list_owner"
	ActionTransitionReservation Action = "reservation:transition"

	ActionCreateMaintenance       Action = "maintenance:create"
	ActionListReportedMaintenance Action = "maintenance:list_reporter"
	ActionListAssignedMaintenance Action = "maintenance:list_technician"
	ActionTransitionMaintenance   Action = "maintenance:transition"
)

// Actor is the authenticated caller as decoded from the access token.
type Actor struct {
	ID   uint
	Role models.Role
}

// MaintenanceResource pairs a maintenance request with the owner of its
// property, which the request row alone does not carry.
type MaintenanceResource struct {
	Request         *models.MaintenanceRequest
	PropertyOwnerID uint
}

// Allowed is the single authorization predicate. The resource argument is
// nil for pure role gates, *models.Property for image deletion,
// *models.Reservation for reservation transitions and MaintenanceResource
// for maintenance transitions.
func Allowed(actor Actor, action Action, resource interface{}) bool {
	switch action {
	case ActionCreateProperty:
		// Any authenticated user may list a property.
		return actor.ID != 0

	case ActionDeletePropertyImage:
		property, ok := resource.(*models.Property)
		if !ok {
			return false
		}
		return property.OwnerID == actor.ID

	case ActionCreateReservation, ActionListOwnReservations:
		return actor.Role == models.RoleTenant

	case ActionListOwnedReservations:
		return actor.Role == models.RoleOwner

	case ActionTransitionReservation:
		reservation, ok := resource.(*models.Reservation)
		if !ok {
			return false
		}
		return actor.Role == models.RoleOwner && reservation.OwnerID == actor.ID

	case ActionCreateMaintenance:
		return actor.Role == models.RoleTenant || actor.Role == models.RoleOwner

	case ActionListReportedMaintenance:
		return actor.ID != 0

	case ActionListAssignedMaintenance:
		return actor.Role == models.RoleTechnician

	case ActionTransitionMaintenance:
		res, ok := resource.(MaintenanceResource)
		if !ok || res.Request == nil {
			return false
		}
		if res.Request.AssignedToID != nil && *res.Request.AssignedToID == actor.ID {
			return true
		}
		return res.PropertyOwnerID == actor.ID
	}

	return false
}
