package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MaintenanceStatus string

const (
	MaintenancePending    MaintenanceStatus = "pending"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceResolved   MaintenanceStatus = "resolved"
	MaintenanceClosed     MaintenanceStatus = "closed"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenancePending, MaintenanceInProgress, MaintenanceResolved, MaintenanceClosed:
		return true
	}
	return false
}

type MaintenanceType string

const (
	MaintenancePlumbing   MaintenanceType = "plumbing"
	MaintenanceElectrical MaintenanceType = "electrical"
	MaintenanceStructural MaintenanceType = "structural"
	MaintenancePainting   MaintenanceType = "painting"
	MaintenanceOtherType  MaintenanceType = "other"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenancePlumbing, MaintenanceElectrical, MaintenanceStructural,
		MaintenancePainting, MaintenanceOtherType:
		return true
	}
	return false
}

// StatusChange is one entry of a maintenance request's History column.
type StatusChange struct {
	Status      MaintenanceStatus `json:"status"`
	ChangedByID uint              `json:"changedByID"`
	Date        time.Time         `json:"date"`
}

type MaintenanceRequest struct {
	gorm.Model
	PropertyID   uint              `json:"propertyID"`
	ReportedByID uint              `json:"reportedByID"`
	AssignedToID *uint             `json:"assignedToID"`
	Description  string            `json:"description"`
	Type         MaintenanceType   `json:"type" gorm:"type:varchar(20)"`
	Status       MaintenanceStatus `json:"status" gorm:"type:varchar(20);default:pending;index"`
	Images       datatypes.JSON    `json:"images"`
	History      datatypes.JSON    `json:"history"`

	Property   *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	ReportedBy *User     `json:"reportedBy,omitempty" gorm:"foreignKey:ReportedByID"`
	AssignedTo *User     `json:"assignedTo,omitempty" gorm:"foreignKey:AssignedToID"`
}

// AppendHistory records a status transition in the History column.
func (m *MaintenanceRequest) AppendHistory(status MaintenanceStatus, changedByID uint, at time.Time) error {
	var history []StatusChange
	if m.History != nil {
		if err := json.Unmarshal(m.History, &history); err != nil {
			return err
		}
	}
	history = append(history, StatusChange{Status: status, ChangedByID: changedByID, Date: at})

	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	m.History = raw
	return nil
}

// Custom JSON marshaling to expand the Images and History columns.
func (m *MaintenanceRequest) MarshalJSON() ([]byte, error) {
	type Alias MaintenanceRequest
	aux := &struct {
		Images  []Image        `json:"images"`
		History []StatusChange `json:"history"`
		*Alias
	}{
		Images:  []Image{},
		History: []StatusChange{},
		Alias:   (*Alias)(m),
	}

	if m.Images != nil {
		var images []Image
		if err := json.Unmarshal(m.Images, &images); err == nil {
			aux.Images = images
		}
	}

	if m.History != nil {
		var history []StatusChange
		if err := json.Unmarshal(m.History, &history); err == nil {
			aux.History = history
		}
	}

	return json.Marshal(aux)
}
