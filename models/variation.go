package models

import (
	"time"

	"github.com/google/uuid"
)

// Variation links a parent product to one of its child variants. The
// existence of a row marks the child as non-standalone and the parent as
// having variants.
type Variation struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ParentProductID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_variation_pair" json:"parent_product_id"`
	ChildProductID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_variation_pair" json:"child_product_id"`
	CreatedAt       time.Time `json:"created_at"`
}

func (v *Variation) TableName() string {
	return "variations"
}
