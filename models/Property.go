package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyRoom      PropertyType = "room"
	PropertyOther     PropertyType = "other"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyRoom, PropertyOther:
		return true
	}
	return false
}

// Image is a Cloudinary reference stored inside JSON columns.
type Image struct {
	PublicID string `json:"publicID"`
	URL      string `json:"url"`
}

type Property struct {
	gorm.Model
	OwnerID     uint           `json:"ownerID"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Type        PropertyType   `json:"type" gorm:"type:varchar(20);index"`
	Lat         float64        `json:"lat"`
	Lng         float64        `json:"lng"`
	Address     string         `json:"address"`
	Images      datatypes.JSON `json:"images"`

	Owner        *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Reservations []Reservation `json:"reservations,omitempty"`
}

// Custom JSON marshaling to expand the Images column into a proper array.
func (p *Property) MarshalJSON() ([]byte, error) {
	type Alias Property
	aux := &struct {
		Images []Image `json:"images"`
		*Alias
	}{
		Images: []Image{},
		Alias:  (*Alias)(p),
	}

	if p.Images != nil {
		var images []Image
		if err := json.Unmarshal(p.Images, &images); err == nil {
			aux.Images = images
		}
	}

	return json.Marshal(aux)
}
