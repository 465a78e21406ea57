package model

import (
	"fmt"
	"strings"
	"time"
)

// VMRecord describes one uploaded VM image and its provisioning profile.
// Records are created by the upload pipeline after a successful blob write
// and are never updated or deleted afterwards.
type VMRecord struct {
	ID               int64     `gorm:"column:id;primaryKey" json:"id"`
	VMName           string    `gorm:"column:vm_name" json:"vm_name"`
	Description      string    `gorm:"column:description" json:"description"`
	OriginalFilename string    `gorm:"column:original_filename" json:"original_filename"`
	StorageURL       string    `gorm:"column:storage_url" json:"storage_url"`
	StorageKey       string    `gorm:"column:storage_key" json:"storage_key"`
	Compression      CodecTag  `gorm:"column:compression" json:"compression"`
	Location         string    `gorm:"column:location" json:"location"`
	VMSize           string    `gorm:"column:vm_size" json:"vm_size"`
	ImageReference   string    `gorm:"column:image_reference" json:"image_reference"`
	AdminUsername    string    `gorm:"column:admin_username" json:"admin_username"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VMRecord) TableName() string {
	return "vm_metadata"
}

// ImageReferenceParts is a parsed "publisher:offer:sku:version" image
// reference.
type ImageReferenceParts struct {
	Publisher string
	Offer     string
	SKU       string
	Version   string
}

func (p ImageReferenceParts) String() string {
	return strings.Join([]string{p.Publisher, p.Offer, p.SKU, p.Version}, ":")
}

// ParseImageReference splits an image reference into its four
// colon-delimited components. All four must be present and non-empty.
func ParseImageReference(ref string) (ImageReferenceParts, error) {
	parts := strings.Split(ref, ":")
	if len(parts) != 4 {
		return ImageReferenceParts{}, fmt.Errorf("image reference %q must have 4 colon-delimited parts, got %d", ref, len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return ImageReferenceParts{}, fmt.Errorf("image reference %q has an empty component", ref)
		}
	}
	return ImageReferenceParts{
		Publisher: parts[0],
		Offer:     parts[1],
		SKU:       parts[2],
		Version:   parts[3],
	}, nil
}
