// Package adapters はnotesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/notes/usecase"
)

// noteGorm はNoteRepositoryインターフェースのGORM実装です。
type noteGorm struct {
	db *gorm.DB
}

var _ usecase.NoteRepository = (*noteGorm)(nil)

// NewNoteRepository は指定されたDB接続でnoteGormリポジトリの新しいインスタンスを生成します。
func NewNoteRepository(db *gorm.DB) *noteGorm {
	return &noteGorm{db: db}
}

// Create はノートを挿入します。付与済みのタグがあれば関連も保存されます。
func (r *noteGorm) Create(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

// Update はノート本体のみを保存します。タグの関連はAppendTag/RemoveTagで管理します。
func (r *noteGorm) Update(ctx context.Context, note *entity.Note) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(note).Error
}

// Delete はノートと依存レコードを明示的に削除・nil化します:
// タグとの関連行を削除し、テンプレートデータと価格目標からの参照をnil化します。
func (r *noteGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM note_tags WHERE note_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Table("template_data").Where("note_id = ?", id).Update("note_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Table("price_targets").Where("note_id = ?", id).Update("note_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Note{}).Error
	})
}

// FindByID はIDでノートを取得します。タグも読み込まれます。
func (r *noteGorm) FindByID(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	err := r.db.WithContext(ctx).Preload("Tags").First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List は全ノートをcreatedDate降順で返します。
func (r *noteGorm) List(ctx context.Context) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Order("created_date DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Recent は直近limit件のノートをcreatedDate降順で返します。
func (r *noteGorm) Recent(ctx context.Context, limit int) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Order("created_date DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Search は本文・ティッカー・会社名に対する大文字小文字を区別しない
// 部分一致検索です。銘柄はLEFT JOINで突き合わせます。
func (r *noteGorm) Search(ctx context.Context, query string) ([]entity.Note, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Joins("LEFT JOIN symbols ON symbols.ticker = notes.symbol_ticker").
		Where(
			"LOWER(notes.content) LIKE ? OR LOWER(symbols.ticker) LIKE ? OR LOWER(symbols.company_name) LIKE ?",
			pattern, pattern, pattern,
		).
		Order("notes.created_date DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ForSymbol はティッカー（自然キー）一致のノートをcreatedDate降順で返します。
func (r *noteGorm) ForSymbol(ctx context.Context, ticker string) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("symbol_ticker = ?", ticker).
		Order("created_date DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ForTag はタグ名（自然キー）一致のノートをcreatedDate降順で返します。
func (r *noteGorm) ForTag(ctx context.Context, tagName string) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN note_tags ON note_tags.note_id = notes.id").
		Joins("JOIN tags ON tags.id = note_tags.tag_id").
		Where("tags.name = ?", tagName).
		Order("notes.created_date DESC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// Count は全ノート数を返します。
func (r *noteGorm) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Note{}).Count(&count).Error
	return count, err
}

// CountSince はsince以降に作成されたノート数を返します。
func (r *noteGorm) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Note{}).
		Where("created_date >= ?", since).
		Count(&count).Error
	return count, err
}

// AppendTag はタグとの関連を追加し、最終編集日時を更新します。
func (r *noteGorm) AppendTag(ctx context.Context, note *entity.Note, tag entity.Tag) error {
	if err := r.db.WithContext(ctx).Model(note).Association("Tags").Append(&tag); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(note).
		Update("last_edited_date", time.Now()).Error
}

// RemoveTag はタグとの関連を外し、最終編集日時を更新します。タグ自体は残ります。
func (r *noteGorm) RemoveTag(ctx context.Context, note *entity.Note, tagName string) error {
	var tag entity.Tag
	err := r.db.WithContext(ctx).First(&tag, "name = ?", tagName).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.ErrTagNotFound
	}
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Model(note).Association("Tags").Delete(&tag); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(note).
		Update("last_edited_date", time.Now()).Error
}
