package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/backup/domain"
	"stocknotes/internal/feature/backup/usecase"
	notesentity "stocknotes/internal/feature/notes/domain/entity"
	symbolsentity "stocknotes/internal/feature/symbols/domain/entity"
)

// mockBackupRepository はBackupRepositoryインターフェースのモック実装です。
type mockBackupRepository struct {
	LoadAllFunc    func(ctx context.Context) (*usecase.Snapshot, error)
	ReplaceAllFunc func(ctx context.Context, snap *usecase.Snapshot) error

	Replaced *usecase.Snapshot
}

func (m *mockBackupRepository) LoadAll(ctx context.Context) (*usecase.Snapshot, error) {
	if m.LoadAllFunc != nil {
		return m.LoadAllFunc(ctx)
	}
	return &usecase.Snapshot{}, nil
}

func (m *mockBackupRepository) ReplaceAll(ctx context.Context, snap *usecase.Snapshot) error {
	m.Replaced = snap
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, snap)
	}
	return nil
}

func strPtr(s string) *string { return &s }

// TestBackupUsecase_Export はエクスポートの決定的な並び順と自然キー参照を
// テストします。
func TestBackupUsecase_Export(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromFloat(187.2)
	early := time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 2, 14, 9, 30, 0, 0, time.UTC)

	repo := &mockBackupRepository{
		LoadAllFunc: func(ctx context.Context) (*usecase.Snapshot, error) {
			return &usecase.Snapshot{
				Notes: []notesentity.Note{
					{
						ID:          "n2",
						Content:     "second note",
						CreatedDate: late,
						Tags:        []notesentity.Tag{{Name: "thesis"}, {Name: "earnings"}},
					},
					{
						ID:           "n1",
						Content:      "first note",
						SymbolTicker: strPtr("AAPL"),
						CreatedDate:  early,
					},
				},
				Symbols: []symbolsentity.Symbol{
					{Ticker: "TSLA"},
					{Ticker: "AAPL", CompanyName: "Apple Inc.", CurrentPrice: &price},
				},
				Tags: []notesentity.Tag{{Name: "thesis"}, {Name: "earnings"}},
			}, nil
		},
	}

	data, err := usecase.NewBackupUsecase(repo).Export(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc domain.BackupData
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if doc.Version != domain.BackupVersion {
		t.Errorf("expected version %q, got %q", domain.BackupVersion, doc.Version)
	}
	if len(doc.Notes) != 2 || doc.Notes[0].ID != "n1" || doc.Notes[1].ID != "n2" {
		t.Errorf("expected notes ordered by creation date, got %+v", doc.Notes)
	}
	if len(doc.Symbols) != 2 || doc.Symbols[0].Ticker != "AAPL" || doc.Symbols[1].Ticker != "TSLA" {
		t.Errorf("expected symbols ordered by ticker, got %+v", doc.Symbols)
	}
	if doc.Symbols[0].CurrentPrice == nil || *doc.Symbols[0].CurrentPrice != "187.2" {
		t.Errorf("expected decimal price string, got %v", doc.Symbols[0].CurrentPrice)
	}
	if len(doc.Tags) != 2 || doc.Tags[0].Name != "earnings" || doc.Tags[1].Name != "thesis" {
		t.Errorf("expected tags ordered by name, got %+v", doc.Tags)
	}
	if got := doc.Notes[1].TagNames; len(got) != 2 || got[0] != "earnings" || got[1] != "thesis" {
		t.Errorf("expected note tag names sorted, got %v", got)
	}
}

// TestBackupUsecase_RoundTrip はエクスポートしたドキュメントをそのまま
// インポートして同じデータセットに復元されることをテストします。
func TestBackupUsecase_RoundTrip(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromInt(42)
	repo := &mockBackupRepository{
		LoadAllFunc: func(ctx context.Context) (*usecase.Snapshot, error) {
			return &usecase.Snapshot{
				Notes: []notesentity.Note{
					{
						ID:           "n1",
						Content:      "holding through earnings",
						SymbolTicker: strPtr("NVDA"),
						Tags:         []notesentity.Tag{{Name: "earnings"}},
						CreatedDate:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
						IsSnap:       true,
					},
				},
				Symbols: []symbolsentity.Symbol{{Ticker: "NVDA", CurrentPrice: &price}},
				Tags:    []notesentity.Tag{{Name: "earnings"}},
			}, nil
		},
	}
	uc := usecase.NewBackupUsecase(repo)

	data, err := uc.Export(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	result, err := uc.Import(context.Background(), data)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Notes != 1 || result.Symbols != 1 || result.Tags != 1 {
		t.Errorf("unexpected counts: %+v", result)
	}
	if result.DroppedRefs != 0 {
		t.Errorf("expected no dropped refs, got %d", result.DroppedRefs)
	}

	snap := repo.Replaced
	if snap == nil {
		t.Fatal("expected ReplaceAll to be called")
	}
	note := snap.Notes[0]
	if note.SymbolTicker == nil || *note.SymbolTicker != "NVDA" {
		t.Error("expected symbol reference preserved")
	}
	if len(note.Tags) != 1 || note.Tags[0].Name != "earnings" {
		t.Error("expected tag reference preserved")
	}
	if !note.IsSnap {
		t.Error("expected IsSnap preserved")
	}
	sym := snap.Symbols[0]
	if sym.CurrentPrice == nil || !sym.CurrentPrice.Equal(price) {
		t.Error("expected symbol price preserved")
	}
}

// TestBackupUsecase_Import_DropsDanglingRefs はバックアップ自身のリストに
// 存在しない参照が黙って破棄され、計上されることをテストします。
func TestBackupUsecase_Import_DropsDanglingRefs(t *testing.T) {
	t.Parallel()

	doc := domain.BackupData{
		Version: domain.BackupVersion,
		Notes: []domain.NoteBackup{
			{
				ID:           "n1",
				Content:      "references missing things",
				SymbolTicker: strPtr("GHOST"),
				TagNames:     []string{"missing-tag", "earnings"},
			},
		},
		Tags: []domain.TagBackup{{Name: "earnings"}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	repo := &mockBackupRepository{}
	result, err := usecase.NewBackupUsecase(repo).Import(context.Background(), data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DroppedRefs != 2 {
		t.Errorf("expected 2 dropped refs (ticker + tag), got %d", result.DroppedRefs)
	}

	note := repo.Replaced.Notes[0]
	if note.SymbolTicker != nil {
		t.Error("expected dangling symbol reference cleared")
	}
	if len(note.Tags) != 1 || note.Tags[0].Name != "earnings" {
		t.Errorf("expected only the known tag kept, got %v", note.Tags)
	}
}

// TestBackupUsecase_Import_Invalid はパース不能なドキュメントの全体拒否を
// テストします。
func TestBackupUsecase_Import_Invalid(t *testing.T) {
	t.Parallel()

	repo := &mockBackupRepository{}
	uc := usecase.NewBackupUsecase(repo)

	cases := []struct {
		name string
		data []byte
	}{
		{name: "not json", data: []byte("not a backup")},
		{name: "bad price", data: []byte(`{"symbols":[{"ticker":"AAPL","currentPrice":"abc"}]}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.Import(context.Background(), tc.data); !errors.Is(err, usecase.ErrInvalidBackup) {
				t.Errorf("expected ErrInvalidBackup, got %v", err)
			}
			if repo.Replaced != nil {
				t.Error("expected no data applied on invalid import")
			}
		})
	}
}
