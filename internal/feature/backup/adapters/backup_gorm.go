// Package adapters はbackupフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stocknotes/internal/feature/backup/usecase"
	notesentity "stocknotes/internal/feature/notes/domain/entity"
	symbolsentity "stocknotes/internal/feature/symbols/domain/entity"
)

// backupGorm はBackupRepositoryインターフェースのGORM実装です。
type backupGorm struct {
	db *gorm.DB
}

var _ usecase.BackupRepository = (*backupGorm)(nil)

// NewBackupRepository は指定されたDB接続でbackupGormリポジトリの新しいインスタンスを生成します。
func NewBackupRepository(db *gorm.DB) *backupGorm {
	return &backupGorm{db: db}
}

// LoadAll はデータセット全体（ノート・銘柄・タグ）を読み込みます。
func (r *backupGorm) LoadAll(ctx context.Context) (*usecase.Snapshot, error) {
	snap := &usecase.Snapshot{}

	if err := r.db.WithContext(ctx).Preload("Tags").Find(&snap.Notes).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&snap.Symbols).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Find(&snap.Tags).Error; err != nil {
		return nil, err
	}
	return snap, nil
}

// ReplaceAll はデータセット全体を1つのトランザクションで置き換えます。
// 失敗した場合は何も適用されません（全コミットか全破棄）。
// ノート・銘柄の削除に伴い、価格目標とテンプレートデータからの参照はnil化します。
func (r *backupGorm) ReplaceAll(ctx context.Context, snap *usecase.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 既存データの全削除と参照のnil化
		if err := tx.Exec("DELETE FROM note_tags").Error; err != nil {
			return err
		}
		if err := tx.Table("price_targets").Where("note_id IS NOT NULL").Update("note_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Table("price_targets").Where("symbol_ticker IS NOT NULL").Update("symbol_ticker", nil).Error; err != nil {
			return err
		}
		if err := tx.Table("template_data").Where("note_id IS NOT NULL").Update("note_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&notesentity.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&notesentity.Tag{}).Error; err != nil {
			return err
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&symbolsentity.Symbol{}).Error; err != nil {
			return err
		}

		// 銘柄→タグ→ノートの順に復元（ノートの参照解決のため）
		for i := range snap.Symbols {
			if err := tx.Create(&snap.Symbols[i]).Error; err != nil {
				return err
			}
		}

		tagsByName := make(map[string]notesentity.Tag, len(snap.Tags))
		for i := range snap.Tags {
			if err := tx.Create(&snap.Tags[i]).Error; err != nil {
				return err
			}
			tagsByName[snap.Tags[i].Name] = snap.Tags[i]
		}

		for i := range snap.Notes {
			// 挿入済みタグ（ID確定済み）に差し替えてから関連を保存する
			resolved := make([]notesentity.Tag, 0, len(snap.Notes[i].Tags))
			for _, t := range snap.Notes[i].Tags {
				if created, ok := tagsByName[t.Name]; ok {
					resolved = append(resolved, created)
				}
			}
			snap.Notes[i].Tags = resolved

			if err := tx.Omit(clause.Associations).Create(&snap.Notes[i]).Error; err != nil {
				return err
			}
			if len(resolved) > 0 {
				if err := tx.Model(&snap.Notes[i]).Association("Tags").Append(&resolved); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
