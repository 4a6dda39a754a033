package models

import (
	"time"

	"github.com/google/uuid"
)

// Taxon is a node in the category hierarchy. Deleting a taxon cascades a
// soft-delete to every product tagged to it or any of its descendants.
type Taxon struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Permalink string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"permalink"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent    *Taxon     `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children  []Taxon    `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (t *Taxon) TableName() string {
	return "taxons"
}

// StockItem tracks per-product count on hand. A product is orderable only
// when at least one stock item has CountOnHand > 0.
type StockItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	CountOnHand int       `gorm:"not null;default:0" json:"count_on_hand"`
	Warehouse   string    `gorm:"type:varchar(128)" json:"warehouse,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *StockItem) TableName() string {
	return "stock_items"
}
