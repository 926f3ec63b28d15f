package repository

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound — записи с таким id нет
var ErrNotFound = errors.New("record not found")

// FindByID грузит запись с нужными связями; gorm.ErrRecordNotFound -> ErrNotFound
func FindByID[T any](db *gorm.DB, id uint, preload ...string) (*T, error) {
	var item T
	q := db
	for _, rel := range preload {
		q = q.Preload(rel, orderByID)
	}
	if err := q.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Exists проверяет, занято ли значение column другим (не exceptID) рядом
func Exists(db *gorm.DB, model any, column string, value any, exceptID uint) (bool, error) {
	var cnt int64
	q := db.Model(model).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// MissingIDs возвращает те ids, которых нет в таблице model
func MissingIDs(db *gorm.DB, model any, ids []uint) ([]uint, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := db.Model(model).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	missing, _ := DiffIDs(found, ids)
	return missing, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
