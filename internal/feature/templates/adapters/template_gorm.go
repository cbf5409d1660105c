// Package adapters はtemplatesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stocknotes/internal/feature/templates/domain/entity"
	"stocknotes/internal/feature/templates/usecase"
)

// templateGorm はTemplateRepositoryインターフェースのGORM実装です。
type templateGorm struct {
	db *gorm.DB
}

var _ usecase.TemplateRepository = (*templateGorm)(nil)

// NewTemplateRepository は指定されたDB接続でtemplateGormリポジトリの新しいインスタンスを生成します。
func NewTemplateRepository(db *gorm.DB) *templateGorm {
	return &templateGorm{db: db}
}

// Create はテンプレートデータを挿入します。
func (r *templateGorm) Create(ctx context.Context, data *entity.TemplateData) error {
	return r.db.WithContext(ctx).Create(data).Error
}

// FindByID はIDでテンプレートデータを取得します。
func (r *templateGorm) FindByID(ctx context.Context, id string) (*entity.TemplateData, error) {
	var data entity.TemplateData
	err := r.db.WithContext(ctx).First(&data, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrTemplateDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// FindByNoteID はノートに紐づくテンプレートデータを取得します。
func (r *templateGorm) FindByNoteID(ctx context.Context, noteID string) (*entity.TemplateData, error) {
	var data entity.TemplateData
	err := r.db.WithContext(ctx).First(&data, "note_id = ?", noteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrTemplateDataNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

// Delete はテンプレートデータを削除します。ノートには影響しません。
func (r *templateGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.TemplateData{}).Error
}
