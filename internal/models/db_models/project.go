package db_models

import (
	"gorm.io/datatypes"
)

// Project is a social-enterprise project users can donate to. ImpactConfig is
// the raw impact document written by the admin tooling (snake_case or
// camelCase keys, normalized on read); this service never writes it.
type Project struct {
	BaseModel
	Title       string `gorm:"not null"`
	Description string
	IsActive    bool `gorm:"default:true;index"`

	// Conversion rate from donated currency to Impact Points.
	PointsMultiplier float64        `gorm:"default:10"`
	ImpactConfig     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Donations []Donation `gorm:"foreignKey:ProjectID"`
}
