package repository

import (
	"gorm.io/gorm"

	"catalog/internal/models"
)

// LoadImages вешает картинки на владельцев одним запросом
func LoadImages[T models.ImageOwner](db *gorm.DB, owners []T) error {
	if len(owners) == 0 {
		return nil
	}
	kind, _ := owners[0].OwnerRef()
	ids := make([]uint, 0, len(owners))
	for _, o := range owners {
		_, id := o.OwnerRef()
		ids = append(ids, id)
	}

	var images []models.Image
	err := db.Where("owner_kind = ? AND owner_id IN ?", kind, ids).
		Order("id").
		Find(&images).Error
	if err != nil {
		return err
	}

	byOwner := make(map[uint][]models.Image, len(owners))
	for _, img := range images {
		byOwner[img.OwnerID] = append(byOwner[img.OwnerID], img)
	}
	for _, o := range owners {
		_, id := o.OwnerRef()
		imgs := byOwner[id]
		if imgs == nil {
			imgs = []models.Image{}
		}
		o.SetImages(imgs)
	}
	return nil
}

// CreateImages добавляет строки images для уже сохранённых файлов
func CreateImages(tx *gorm.DB, kind models.OwnerKind, ownerID uint, paths []string) ([]models.Image, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	images := make([]models.Image, 0, len(paths))
	for _, p := range paths {
		images = append(images, models.Image{OwnerKind: kind, OwnerID: ownerID, Path: p})
	}
	if err := tx.Create(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// DeleteImages удаляет строки владельца и возвращает их, чтобы потом стереть файлы
func DeleteImages(tx *gorm.DB, kind models.OwnerKind, ownerID uint) ([]models.Image, error) {
	var images []models.Image
	if err := tx.Where("owner_kind = ? AND owner_id = ?", kind, ownerID).Find(&images).Error; err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, nil
	}
	ids := make([]uint, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	if err := tx.Delete(&models.Image{}, ids).Error; err != nil {
		return nil, err
	}
	return images, nil
}
