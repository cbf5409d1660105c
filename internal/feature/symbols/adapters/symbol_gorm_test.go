package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	notesentity "stocknotes/internal/feature/notes/domain/entity"
	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/feature/symbols/usecase"
	targetsentity "stocknotes/internal/feature/targets/domain/entity"
	templatesentity "stocknotes/internal/feature/templates/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&entity.Symbol{},
		&notesentity.Tag{},
		&notesentity.Note{},
		&targetsentity.PriceTarget{},
		&templatesentity.TemplateData{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func TestSymbolGorm_CreateAndFind(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	price := decimal.NewFromFloat(187.25)
	err := repo.Create(context.Background(), &entity.Symbol{
		Ticker:       "AAPL",
		CompanyName:  "Apple Inc.",
		CurrentPrice: &price,
	})
	require.NoError(t, err)

	got, err := repo.FindByTicker(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", got.CompanyName)
	require.NotNil(t, got.CurrentPrice)
	assert.True(t, got.CurrentPrice.Equal(price), "price should survive the round trip")

	_, err = repo.FindByTicker(context.Background(), "TSLA")
	assert.True(t, errors.Is(err, usecase.ErrSymbolNotFound), "expected ErrSymbolNotFound, got %v", err)
}

func TestSymbolGorm_List_OrderedByTicker(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	for _, ticker := range []string{"TSLA", "AAPL", "NVDA"} {
		require.NoError(t, repo.Create(context.Background(), &entity.Symbol{Ticker: ticker}))
	}

	symbols, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, symbols, 3)
	assert.Equal(t, "AAPL", symbols[0].Ticker)
	assert.Equal(t, "NVDA", symbols[1].Ticker)
	assert.Equal(t, "TSLA", symbols[2].Ticker)
}

func TestSymbolGorm_Save_UpdatesPrice(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	require.NoError(t, repo.Create(context.Background(), &entity.Symbol{Ticker: "NVDA"}))

	symbol, err := repo.FindByTicker(context.Background(), "NVDA")
	require.NoError(t, err)
	price := decimal.NewFromInt(900)
	symbol.UpdatePrice(&price)
	require.NoError(t, repo.Save(context.Background(), symbol))

	got, err := repo.FindByTicker(context.Background(), "NVDA")
	require.NoError(t, err)
	require.NotNil(t, got.CurrentPrice)
	assert.True(t, got.CurrentPrice.Equal(price))
	assert.NotNil(t, got.LastPriceUpdate)
}

func TestSymbolGorm_Delete_CascadesNotesAndClearsTargets(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	ticker := "AAPL"
	require.NoError(t, repo.Create(context.Background(), &entity.Symbol{Ticker: ticker}))

	note := &notesentity.Note{
		ID:           uuid.NewString(),
		Content:      "owned by the symbol",
		SymbolTicker: &ticker,
		CreatedDate:  time.Now(),
		Tags:         []notesentity.Tag{{Name: "thesis"}},
	}
	require.NoError(t, db.Create(note).Error)

	orphan := &notesentity.Note{ID: uuid.NewString(), Content: "unrelated", CreatedDate: time.Now()}
	require.NoError(t, db.Create(orphan).Error)

	targetOnSymbol := &targetsentity.PriceTarget{
		ID:           uuid.NewString(),
		TargetPrice:  decimal.NewFromInt(200),
		SymbolTicker: &ticker,
	}
	require.NoError(t, db.Create(targetOnSymbol).Error)
	targetOnNote := &targetsentity.PriceTarget{
		ID:          uuid.NewString(),
		TargetPrice: decimal.NewFromInt(210),
		NoteID:      &note.ID,
	}
	require.NoError(t, db.Create(targetOnNote).Error)

	require.NoError(t, repo.Delete(context.Background(), ticker))

	_, err := repo.FindByTicker(context.Background(), ticker)
	assert.True(t, errors.Is(err, usecase.ErrSymbolNotFound), "symbol should be gone")

	var noteCount int64
	db.Model(&notesentity.Note{}).Count(&noteCount)
	assert.Equal(t, int64(1), noteCount, "only the owned note should be deleted")

	var assocCount int64
	db.Table("note_tags").Count(&assocCount)
	assert.Equal(t, int64(0), assocCount, "deleted note's tag associations should be removed")

	var onSymbol targetsentity.PriceTarget
	require.NoError(t, db.First(&onSymbol, "id = ?", targetOnSymbol.ID).Error)
	assert.Nil(t, onSymbol.SymbolTicker, "target's symbol reference should be nil'd, not deleted")

	// 主キーが埋まった構造体を使い回すとgormが両方のIDをANDしてしまう
	var onNote targetsentity.PriceTarget
	require.NoError(t, db.First(&onNote, "id = ?", targetOnNote.ID).Error)
	assert.Nil(t, onNote.NoteID, "target's note reference should be nil'd when the note is cascaded")
}

func TestSymbolGorm_NoteCountAndLatestNoteDate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	ticker := "TSLA"
	require.NoError(t, repo.Create(context.Background(), &entity.Symbol{Ticker: ticker}))

	count, err := repo.NoteCount(context.Background(), ticker)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	latest, err := repo.LatestNoteDate(context.Background(), ticker)
	require.NoError(t, err)
	assert.Nil(t, latest, "no notes means no latest date")

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, created := range []time.Time{older, newer} {
		require.NoError(t, db.Create(&notesentity.Note{
			ID:           uuid.NewString(),
			SymbolTicker: &ticker,
			CreatedDate:  created,
		}).Error)
	}

	count, err = repo.NoteCount(context.Background(), ticker)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	latest, err = repo.LatestNoteDate(context.Background(), ticker)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.Unix(), latest.Unix())
}
