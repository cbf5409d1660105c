// Package adapters はsymbolsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	notesentity "stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/feature/symbols/usecase"
)

// symbolGorm はSymbolRepositoryインターフェースのGORM実装です。
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolGormリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

// Create は銘柄を挿入します。ティッカーは呼び出し側で正規化済みであることを前提とします。
func (r *symbolGorm) Create(ctx context.Context, symbol *entity.Symbol) error {
	return r.db.WithContext(ctx).Create(symbol).Error
}

// Save は銘柄の全フィールドを保存します。
func (r *symbolGorm) Save(ctx context.Context, symbol *entity.Symbol) error {
	return r.db.WithContext(ctx).Save(symbol).Error
}

// FindByTicker はティッカー（自然キー）で銘柄を取得します。
func (r *symbolGorm) FindByTicker(ctx context.Context, ticker string) (*entity.Symbol, error) {
	var symbol entity.Symbol
	err := r.db.WithContext(ctx).First(&symbol, "ticker = ?", ticker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, usecase.ErrSymbolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &symbol, nil
}

// List は全銘柄をティッカー昇順で返します。
func (r *symbolGorm) List(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	err := r.db.WithContext(ctx).Order("ticker ASC").Find(&symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// Delete は銘柄と依存レコードを削除ルール表に従って明示的に処理します:
// 所有するノートはカスケード削除（タグ関連行・テンプレート/価格目標からの
// 参照も掃除）、価格目標の銘柄参照はnil化します。
func (r *symbolGorm) Delete(ctx context.Context, ticker string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var noteIDs []string
		if err := tx.Table("notes").Where("symbol_ticker = ?", ticker).Pluck("id", &noteIDs).Error; err != nil {
			return err
		}

		if len(noteIDs) > 0 {
			if err := tx.Exec("DELETE FROM note_tags WHERE note_id IN ?", noteIDs).Error; err != nil {
				return err
			}
			if err := tx.Table("template_data").Where("note_id IN ?", noteIDs).Update("note_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Table("price_targets").Where("note_id IN ?", noteIDs).Update("note_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Table("notes").Where("id IN ?", noteIDs).Delete(nil).Error; err != nil {
				return err
			}
		}

		if err := tx.Table("price_targets").Where("symbol_ticker = ?", ticker).Update("symbol_ticker", nil).Error; err != nil {
			return err
		}
		return tx.Where("ticker = ?", ticker).Delete(&entity.Symbol{}).Error
	})
}

// NoteCount は銘柄に紐づくノート数を返します。
func (r *symbolGorm) NoteCount(ctx context.Context, ticker string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("notes").
		Where("symbol_ticker = ?", ticker).
		Count(&count).Error
	return count, err
}

// LatestNoteDate は銘柄に紐づく最新ノートの作成日時を返します。ノートがなければnilです。
// モデル経由で読むことでsqliteの時刻カラムも正しくtime.Timeに復元されます。
func (r *symbolGorm) LatestNoteDate(ctx context.Context, ticker string) (*time.Time, error) {
	var note notesentity.Note
	err := r.db.WithContext(ctx).
		Model(&notesentity.Note{}).
		Select("created_date").
		Where("symbol_ticker = ?", ticker).
		Order("created_date DESC").
		First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note.CreatedDate, nil
}
