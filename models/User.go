package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type Role string

const (
	RoleOwner      Role = "owner"
	RoleTenant     Role = "tenant"
	RoleTechnician Role = "technician"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleTenant, RoleTechnician:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" gorm:"uniqueIndex"`
	Password  string `json:"password"`
	Role      Role   `json:"role" gorm:"type:varchar(20);default:tenant;index"`

	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:OwnerID;references:ID"`
}

// Custom JSON marshaling so the password hash never leaves the server.
// The shadowing field stays empty and is dropped by omitempty.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password string `json:"password,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(u),
	}
	return json.Marshal(aux)
}
