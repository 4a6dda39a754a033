package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is a stored binary asset reference. BlobKey is the object key in
// the blob store; the binary itself never lives in Postgres.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BlobKey     string    `gorm:"type:varchar(512);not null" json:"blob_key"`
	Filename    string    `gorm:"type:varchar(255)" json:"filename"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	Position    int       `gorm:"default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

func (i *Image) TableName() string {
	return "images"
}

// ProductImage is the join row between products and images. A product may
// mark one association as its default image.
type ProductImage struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	ImageID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"image_id"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func (pi *ProductImage) TableName() string {
	return "product_images"
}
