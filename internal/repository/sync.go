package repository

import (
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Pivot — таблица-связка many-to-many
type Pivot struct {
	Table        string
	OwnerColumn  string
	TargetColumn string
}

var (
	CategoryProduct = Pivot{Table: "category_product", OwnerColumn: "product_id", TargetColumn: "category_id"}
	PostType        = Pivot{Table: "post_type", OwnerColumn: "post_id", TargetColumn: "type_id"}
)

// SyncResult — что реально поменялось
type SyncResult struct {
	Attached []uint
	Detached []uint
}

func (r SyncResult) Changed() bool {
	return len(r.Attached) > 0 || len(r.Detached) > 0
}

// DiffIDs: attach = target - current, detach = current - target.
// Оба результата отсортированы и без повторов.
func DiffIDs(current, target []uint) (attach, detach []uint) {
	cur := make(map[uint]struct{}, len(current))
	for _, id := range current {
		cur[id] = struct{}{}
	}
	tgt := make(map[uint]struct{}, len(target))
	for _, id := range target {
		tgt[id] = struct{}{}
	}
	for id := range tgt {
		if _, ok := cur[id]; !ok {
			attach = append(attach, id)
		}
	}
	for id := range cur {
		if _, ok := tgt[id]; !ok {
			detach = append(detach, id)
		}
	}
	sortIDs(attach)
	sortIDs(detach)
	return attach, detach
}

// Sync приводит набор связей владельца ровно к target.
// Вызывать внутри транзакции; повторный вызов с тем же набором ничего не пишет.
func (p Pivot) Sync(tx *gorm.DB, ownerID uint, target []uint) (SyncResult, error) {
	current, err := p.Targets(tx, ownerID)
	if err != nil {
		return SyncResult{}, err
	}
	attach, detach := DiffIDs(current, target)

	if len(detach) > 0 {
		err := tx.Exec("DELETE FROM "+p.Table+" WHERE "+p.OwnerColumn+" = ? AND "+p.TargetColumn+" IN ?",
			ownerID, detach).Error
		if err != nil {
			return SyncResult{}, err
		}
	}
	if len(attach) > 0 {
		now := time.Now()
		rows := make([]map[string]any, 0, len(attach))
		for _, id := range attach {
			rows = append(rows, map[string]any{
				p.OwnerColumn:  ownerID,
				p.TargetColumn: id,
				"created_at":   now,
				"updated_at":   now,
			})
		}
		err := tx.Table(p.Table).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(rows).Error
		if err != nil {
			return SyncResult{}, err
		}
	}
	return SyncResult{Attached: attach, Detached: detach}, nil
}

// Targets — текущие id на той стороне связи
func (p Pivot) Targets(tx *gorm.DB, ownerID uint) ([]uint, error) {
	var ids []uint
	err := tx.Table(p.Table).
		Where(p.OwnerColumn+" = ?", ownerID).
		Order(p.TargetColumn).
		Pluck(p.TargetColumn, &ids).Error
	return ids, err
}

// DetachOwner снимает все связи владельца
func (p Pivot) DetachOwner(tx *gorm.DB, ownerID uint) error {
	return tx.Exec("DELETE FROM "+p.Table+" WHERE "+p.OwnerColumn+" = ?", ownerID).Error
}

// DetachTarget снимает все связи с другой стороны (удаление категории)
func (p Pivot) DetachTarget(tx *gorm.DB, targetID uint) error {
	return tx.Exec("DELETE FROM "+p.Table+" WHERE "+p.TargetColumn+" = ?", targetID).Error
}

func uniqueIDs(ids []uint) []uint {
	_, out := DiffIDs(ids, nil)
	return out
}

func sortIDs(ids []uint) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
