package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stocknotes/internal/feature/backup/usecase"
	notesentity "stocknotes/internal/feature/notes/domain/entity"
	symbolsentity "stocknotes/internal/feature/symbols/domain/entity"
	targetsentity "stocknotes/internal/feature/targets/domain/entity"
	templatesentity "stocknotes/internal/feature/templates/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&symbolsentity.Symbol{},
		&notesentity.Tag{},
		&notesentity.Note{},
		&targetsentity.PriceTarget{},
		&templatesentity.TemplateData{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func TestBackupGorm_LoadAll(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBackupRepository(db)

	ticker := "AAPL"
	require.NoError(t, db.Create(&symbolsentity.Symbol{Ticker: ticker}).Error)
	require.NoError(t, db.Create(&notesentity.Note{
		ID:           uuid.NewString(),
		Content:      "note with tag",
		SymbolTicker: &ticker,
		CreatedDate:  time.Now(),
		Tags:         []notesentity.Tag{{Name: "earnings"}},
	}).Error)

	snap, err := repo.LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Notes, 1)
	require.Len(t, snap.Symbols, 1)
	require.Len(t, snap.Tags, 1)
	assert.Len(t, snap.Notes[0].Tags, 1, "note tags should be preloaded")
}

func TestBackupGorm_ReplaceAll(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBackupRepository(db)

	// 既存データ: 置換で消えるノート・銘柄と、参照がnil化されて生き残る目標
	oldTicker := "OLD"
	require.NoError(t, db.Create(&symbolsentity.Symbol{Ticker: oldTicker}).Error)
	oldNote := &notesentity.Note{
		ID:           uuid.NewString(),
		Content:      "pre-import note",
		SymbolTicker: &oldTicker,
		CreatedDate:  time.Now(),
		Tags:         []notesentity.Tag{{Name: "stale"}},
	}
	require.NoError(t, db.Create(oldNote).Error)
	target := &targetsentity.PriceTarget{
		ID:           uuid.NewString(),
		TargetPrice:  decimal.NewFromInt(100),
		SymbolTicker: &oldTicker,
		NoteID:       &oldNote.ID,
	}
	require.NoError(t, db.Create(target).Error)

	price := decimal.NewFromFloat(42.5)
	snap := &usecase.Snapshot{
		Symbols: []symbolsentity.Symbol{{Ticker: "NVDA", CurrentPrice: &price}},
		Tags:    []notesentity.Tag{{Name: "thesis"}},
		Notes: []notesentity.Note{
			{
				ID:          uuid.NewString(),
				Content:     "imported note",
				CreatedDate: time.Now(),
				Tags:        []notesentity.Tag{{Name: "thesis"}},
			},
		},
	}
	snapTicker := "NVDA"
	snap.Notes[0].SymbolTicker = &snapTicker

	require.NoError(t, repo.ReplaceAll(context.Background(), snap))

	var noteCount, symbolCount, tagCount int64
	db.Model(&notesentity.Note{}).Count(&noteCount)
	db.Model(&symbolsentity.Symbol{}).Count(&symbolCount)
	db.Model(&notesentity.Tag{}).Count(&tagCount)
	assert.Equal(t, int64(1), noteCount, "old notes should be replaced")
	assert.Equal(t, int64(1), symbolCount, "old symbols should be replaced")
	assert.Equal(t, int64(1), tagCount, "old tags should be replaced")

	var gotNote notesentity.Note
	require.NoError(t, db.Preload("Tags").First(&gotNote).Error)
	assert.Equal(t, "imported note", gotNote.Content)
	require.Len(t, gotNote.Tags, 1, "imported tag association should exist")
	assert.Equal(t, "thesis", gotNote.Tags[0].Name)

	var gotTarget targetsentity.PriceTarget
	require.NoError(t, db.First(&gotTarget, "id = ?", target.ID).Error)
	assert.Nil(t, gotTarget.SymbolTicker, "target's symbol reference should be nil'd")
	assert.Nil(t, gotTarget.NoteID, "target's note reference should be nil'd")
}

func TestBackupGorm_ReplaceAll_Empty(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewBackupRepository(db)

	require.NoError(t, db.Create(&symbolsentity.Symbol{Ticker: "AAPL"}).Error)

	require.NoError(t, repo.ReplaceAll(context.Background(), &usecase.Snapshot{}))

	var symbolCount int64
	db.Model(&symbolsentity.Symbol{}).Count(&symbolCount)
	assert.Equal(t, int64(0), symbolCount, "an empty snapshot wipes the dataset")
}
