// Package adapters はtargetsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stocknotes/internal/feature/targets/domain/entity"
	"stocknotes/internal/feature/targets/usecase"
)

// targetGorm はTargetRepositoryインターフェースのGORM実装です。
type targetGorm struct {
	db *gorm.DB
}

var _ usecase.TargetRepository = (*targetGorm)(nil)

// NewTargetRepository は指定されたDB接続でtargetGormリポジトリの新しいインスタンスを生成します。
func NewTargetRepository(db *gorm.DB) *targetGorm {
	return &targetGorm{db: db}
}

// Create は価格目標を挿入します。
func (r *targetGorm) Create(ctx context.Context, target *entity.PriceTarget) error {
	return r.db.WithContext(ctx).Create(target).Error
}

// Save は価格目標の全フィールドを保存します。
func (r *targetGorm) Save(ctx context.Context, target *entity.PriceTarget) error {
	return r.db.WithContext(ctx).Save(target).Error
}

// Delete は価格目標を削除します。依存はありません。
func (r *targetGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PriceTarget{}).Error
}

// FindByID はIDで価格目標を取得します。
func (r *targetGorm) FindByID(ctx context.Context, id string) (*entity.PriceTarget, error) {
	var target entity.PriceTarget
	err := r.db.WithContext(ctx).First(&target, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrTargetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &target, nil
}

// List は全価格目標をcreatedDate降順で返します。
func (r *targetGorm) List(ctx context.Context) ([]entity.PriceTarget, error) {
	var targets []entity.PriceTarget
	err := r.db.WithContext(ctx).Order("created_date DESC").Find(&targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// ForSymbol はティッカー一致の価格目標をcreatedDate降順で返します。
func (r *targetGorm) ForSymbol(ctx context.Context, ticker string) ([]entity.PriceTarget, error) {
	var targets []entity.PriceTarget
	err := r.db.WithContext(ctx).
		Where("symbol_ticker = ?", ticker).
		Order("created_date DESC").
		Find(&targets).Error
	if err != nil {
		return nil, err
	}
	return targets, nil
}
