package models

// OwnerKind — чья картинка: продукта или поста
type OwnerKind string

const (
	OwnerProduct OwnerKind = "product"
	OwnerPost    OwnerKind = "post"
)

func (k OwnerKind) Valid() bool {
	return k == OwnerProduct || k == OwnerPost
}

// Image — таблица images. Владелец задаётся парой owner_kind + owner_id.
type Image struct {
	Base
	OwnerKind OwnerKind `gorm:"type:varchar(16);not null;index:idx_images_owner,priority:1;check:chk_images_owner_kind,owner_kind IN ('product','post')" json:"owner_kind"`
	OwnerID   uint      `gorm:"not null;index:idx_images_owner,priority:2" json:"owner_id"`
	Path      string    `gorm:"size:255;not null;check:chk_images_path,path <> ''" json:"path"`
	URL       string    `gorm:"-" json:"url"` // считается из APP_URL при выдаче
}

// ImageOwner — сущность, к которой можно прикрепить картинки
type ImageOwner interface {
	OwnerRef() (OwnerKind, uint)
	SetImages([]Image)
}
