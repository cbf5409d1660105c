// Package usecase はデータセット全体のエクスポート・インポートを実装します。
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/backup/domain"
	notesentity "stocknotes/internal/feature/notes/domain/entity"
	symbolsentity "stocknotes/internal/feature/symbols/domain/entity"
)

var (
	// ErrInvalidBackup is returned when an import document does not parse as
	// the expected backup shape. The entire import is rejected.
	ErrInvalidBackup = errors.New("invalid backup document")
)

// Snapshot はバックアップ対象のデータセット全体です。
// NotesはTagsが読み込まれた状態であることを前提とします。
type Snapshot struct {
	Notes   []notesentity.Note
	Symbols []symbolsentity.Symbol
	Tags    []notesentity.Tag
}

// BackupRepository はデータセット全体の一括読み書きを抽象化します。
// ReplaceAllは全置換であり、1つの論理トランザクションで完全に適用されるか
// 完全に破棄されるかのいずれかです。
type BackupRepository interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
	ReplaceAll(ctx context.Context, snap *Snapshot) error
}

// ImportResult はインポートの構造化された結果です。
// DroppedRefsはバックアップ自身のリストに存在せず黙って破棄された
// シンボル・タグ参照の数です。
type ImportResult struct {
	Symbols     int
	Tags        int
	Notes       int
	DroppedRefs int
}

// BackupUsecase はバックアップのエクスポート・インポートを定義します。
type BackupUsecase struct {
	repo BackupRepository
	// now is swappable in tests.
	now func() time.Time
}

// NewBackupUsecase はBackupUsecaseの新しいインスタンスを生成します。
func NewBackupUsecase(repo BackupRepository) *BackupUsecase {
	return &BackupUsecase{repo: repo, now: time.Now}
}

// Export は全データを1つのJSONドキュメントとして書き出します。
// 並び順は決定的です（銘柄はティッカー順、タグは名前順、ノートは作成日時順）。
func (bu *BackupUsecase) Export(ctx context.Context) ([]byte, error) {
	snap, err := bu.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	doc := domain.BackupData{
		Version:    domain.BackupVersion,
		ExportDate: bu.now().UTC(),
		Notes:      make([]domain.NoteBackup, 0, len(snap.Notes)),
		Symbols:    make([]domain.SymbolBackup, 0, len(snap.Symbols)),
		Tags:       make([]domain.TagBackup, 0, len(snap.Tags)),
	}

	for _, n := range snap.Notes {
		tagNames := make([]string, 0, len(n.Tags))
		for _, t := range n.Tags {
			tagNames = append(tagNames, t.Name)
		}
		sort.Strings(tagNames)
		doc.Notes = append(doc.Notes, domain.NoteBackup{
			ID:             n.ID,
			Content:        n.Content,
			SymbolTicker:   n.SymbolTicker,
			TagNames:       tagNames,
			CreatedDate:    n.CreatedDate,
			LastEditedDate: n.LastEditedDate,
			IsSnap:         n.IsSnap,
			Images:         n.Images,
		})
	}
	sort.SliceStable(doc.Notes, func(i, j int) bool {
		return doc.Notes[i].CreatedDate.Before(doc.Notes[j].CreatedDate)
	})

	for _, s := range snap.Symbols {
		var price *string
		if s.CurrentPrice != nil {
			p := s.CurrentPrice.String()
			price = &p
		}
		doc.Symbols = append(doc.Symbols, domain.SymbolBackup{
			Ticker:          s.Ticker,
			CompanyName:     s.CompanyName,
			CurrentPrice:    price,
			LastPriceUpdate: s.LastPriceUpdate,
		})
	}
	sort.SliceStable(doc.Symbols, func(i, j int) bool {
		return doc.Symbols[i].Ticker < doc.Symbols[j].Ticker
	})

	for _, t := range snap.Tags {
		doc.Tags = append(doc.Tags, domain.TagBackup{Name: t.Name})
	}
	sort.SliceStable(doc.Tags, func(i, j int) bool {
		return doc.Tags[i].Name < doc.Tags[j].Name
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return data, nil
}

// Import はバックアップドキュメントからデータセット全体を復元します（マージ
// ではなく全置換）。パースに失敗した場合はインポート全体を拒否します。
// ノートが参照するティッカー・タグ名がバックアップ自身のリストに存在しない
// 場合、その参照は黙って破棄され、結果のDroppedRefsに計上されます。
func (bu *BackupUsecase) Import(ctx context.Context, data []byte) (ImportResult, error) {
	var doc domain.BackupData
	if err := json.Unmarshal(data, &doc); err != nil {
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	snap := &Snapshot{}
	var result ImportResult

	// 1) 銘柄をティッカーで索引を作りながら復元
	symbolSet := make(map[string]bool, len(doc.Symbols))
	for _, sb := range doc.Symbols {
		var price *decimal.Decimal
		if sb.CurrentPrice != nil {
			p, err := decimal.NewFromString(*sb.CurrentPrice)
			if err != nil {
				return ImportResult{}, fmt.Errorf("%w: bad price for %s: %v", ErrInvalidBackup, sb.Ticker, err)
			}
			price = &p
		}
		snap.Symbols = append(snap.Symbols, symbolsentity.Symbol{
			Ticker:          sb.Ticker,
			CompanyName:     sb.CompanyName,
			CurrentPrice:    price,
			LastPriceUpdate: sb.LastPriceUpdate,
		})
		symbolSet[sb.Ticker] = true
	}

	// 2) タグを名前で索引を作りながら復元
	tagSet := make(map[string]bool, len(doc.Tags))
	for _, tb := range doc.Tags {
		snap.Tags = append(snap.Tags, notesentity.Tag{Name: tb.Name})
		tagSet[tb.Name] = true
	}

	// 3) ノートを復元し、参照を自然キーで解決
	for _, nb := range doc.Notes {
		note := notesentity.Note{
			ID:             nb.ID,
			Content:        nb.Content,
			CreatedDate:    nb.CreatedDate,
			LastEditedDate: nb.LastEditedDate,
			IsSnap:         nb.IsSnap,
			Images:         nb.Images,
		}
		if nb.SymbolTicker != nil {
			if symbolSet[*nb.SymbolTicker] {
				note.SymbolTicker = nb.SymbolTicker
			} else {
				result.DroppedRefs++
			}
		}
		for _, name := range nb.TagNames {
			if tagSet[name] {
				note.Tags = append(note.Tags, notesentity.Tag{Name: name})
			} else {
				result.DroppedRefs++
			}
		}
		snap.Notes = append(snap.Notes, note)
	}

	if err := bu.repo.ReplaceAll(ctx, snap); err != nil {
		return ImportResult{}, fmt.Errorf("apply import: %w", err)
	}

	result.Symbols = len(snap.Symbols)
	result.Tags = len(snap.Tags)
	result.Notes = len(snap.Notes)
	return result, nil
}
