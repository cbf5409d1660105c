package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/notes/usecase"
)

// tagGorm はTagRepositoryインターフェースのGORM実装です。
type tagGorm struct {
	db *gorm.DB
}

var _ usecase.TagRepository = (*tagGorm)(nil)

// NewTagRepository は指定されたDB接続でtagGormリポジトリの新しいインスタンスを生成します。
func NewTagRepository(db *gorm.DB) *tagGorm {
	return &tagGorm{db: db}
}

// Create はタグを挿入します。名前は呼び出し側で正規化済みであることを前提とします。
func (r *tagGorm) Create(ctx context.Context, tag *entity.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

// FindByName は正規化済みの名前でタグを取得します。
func (r *tagGorm) FindByName(ctx context.Context, name string) (*entity.Tag, error) {
	var tag entity.Tag
	err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// List は全タグを名前昇順・参照ノート数付きで返します。
func (r *tagGorm) List(ctx context.Context) ([]entity.Tag, error) {
	var tags []entity.Tag
	err := r.db.WithContext(ctx).
		Model(&entity.Tag{}).
		Select("tags.*, COUNT(note_tags.note_id) AS note_count").
		Joins("LEFT JOIN note_tags ON note_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Delete はノートとの関連行を削除したうえでタグを削除します。
// 参照していたノート自体には手を付けません（nil化のみ）。
func (r *tagGorm) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag entity.Tag
		err := tx.First(&tag, "name = ?", name).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usecase.ErrTagNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM note_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
