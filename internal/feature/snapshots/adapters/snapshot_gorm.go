package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_dashboard/internal/feature/snapshots/domain/entity"
	"stock_dashboard/internal/feature/snapshots/usecase"
)

type snapshotGorm struct {
	db *gorm.DB
}

var _ usecase.SnapshotStore = (*snapshotGorm)(nil)

func NewSnapshotStore(db *gorm.DB) *snapshotGorm {
	return &snapshotGorm{db: db}
}

type SnapshotModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	DataType  string    `gorm:"size:64"`
	Body      []byte    `gorm:"not null"`
	FetchedAt time.Time `gorm:"not null"`
}

func (SnapshotModel) TableName() string {
	return "snapshots"
}

func toModel(e entity.Snapshot) SnapshotModel {
	return SnapshotModel{
		Name:      e.Name,
		DataType:  e.DataType,
		Body:      e.Body,
		FetchedAt: e.FetchedAt,
	}
}

func (r *snapshotGorm) Find(ctx context.Context, name string) (entity.Snapshot, error) {
	var m SnapshotModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&m).Error; err != nil {
		return entity.Snapshot{}, err
	}
	return entity.Snapshot{
		Name:      m.Name,
		DataType:  m.DataType,
		Body:      m.Body,
		FetchedAt: m.FetchedAt,
	}, nil
}

func (r *snapshotGorm) Upsert(ctx context.Context, snap entity.Snapshot) error {
	m := toModel(snap)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"data_type", "body", "fetched_at"}),
	}).Create(&m).Error
}
