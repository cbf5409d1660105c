package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/targets/domain/entity"
	"stocknotes/internal/feature/targets/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockTargetRepository はTargetRepositoryインターフェースのモック実装です。
type mockTargetRepository struct {
	CreateFunc    func(ctx context.Context, target *entity.PriceTarget) error
	SaveFunc      func(ctx context.Context, target *entity.PriceTarget) error
	DeleteFunc    func(ctx context.Context, id string) error
	FindByIDFunc  func(ctx context.Context, id string) (*entity.PriceTarget, error)
	ListFunc      func(ctx context.Context) ([]entity.PriceTarget, error)
	ForSymbolFunc func(ctx context.Context, ticker string) ([]entity.PriceTarget, error)
}

func (m *mockTargetRepository) Create(ctx context.Context, target *entity.PriceTarget) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, target)
	}
	return nil
}

func (m *mockTargetRepository) Save(ctx context.Context, target *entity.PriceTarget) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, target)
	}
	return nil
}

func (m *mockTargetRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockTargetRepository) FindByID(ctx context.Context, id string) (*entity.PriceTarget, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, usecase.ErrTargetNotFound
}

func (m *mockTargetRepository) List(ctx context.Context) ([]entity.PriceTarget, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockTargetRepository) ForSymbol(ctx context.Context, ticker string) ([]entity.PriceTarget, error) {
	if m.ForSymbolFunc != nil {
		return m.ForSymbolFunc(ctx, ticker)
	}
	return nil, nil
}

// mockPriceReader はPriceReaderインターフェースのモック実装です。
type mockPriceReader struct {
	CurrentPriceFunc func(ctx context.Context, ticker string) (*decimal.Decimal, error)
}

func (m *mockPriceReader) CurrentPrice(ctx context.Context, ticker string) (*decimal.Decimal, error) {
	if m.CurrentPriceFunc != nil {
		return m.CurrentPriceFunc(ctx, ticker)
	}
	return nil, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

// TestTargetUsecase_CreatePriceTarget は価格バリデーションとティッカー正規化をテストします。
func TestTargetUsecase_CreatePriceTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects non-positive price", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewTargetUsecase(&mockTargetRepository{}, &mockPriceReader{})

		_, err := uc.CreatePriceTarget(ctx, usecase.CreateTargetParams{TargetPrice: decimal.Zero})
		if !errors.Is(err, usecase.ErrInvalidTargetPrice) {
			t.Errorf("expected ErrInvalidTargetPrice, got %v", err)
		}
	})

	t.Run("normalizes ticker and assigns id", func(t *testing.T) {
		t.Parallel()

		var created *entity.PriceTarget
		repo := &mockTargetRepository{
			CreateFunc: func(ctx context.Context, target *entity.PriceTarget) error {
				created = target
				return nil
			},
		}
		uc := usecase.NewTargetUsecase(repo, &mockPriceReader{})

		ticker := " aapl "
		target, err := uc.CreatePriceTarget(ctx, usecase.CreateTargetParams{
			TargetPrice:  dec(t, "210.50"),
			SymbolTicker: &ticker,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target.ID == "" {
			t.Error("expected generated target ID")
		}
		if created.SymbolTicker == nil || *created.SymbolTicker != "AAPL" {
			t.Error("expected normalized ticker AAPL")
		}
	})
}

// TestTargetUsecase_UpdatePriceTarget は部分更新のセマンティクスをテストします。
func TestTargetUsecase_UpdatePriceTarget(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	someDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	newRepo := func(stored *entity.PriceTarget) *mockTargetRepository {
		return &mockTargetRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*entity.PriceTarget, error) {
				copied := *stored
				return &copied, nil
			},
		}
	}

	t.Run("omitted fields kept", func(t *testing.T) {
		t.Parallel()

		stored := &entity.PriceTarget{
			ID:              "t1",
			TargetPrice:     dec(t, "100"),
			TargetDate:      &someDate,
			ThesisRationale: "original thesis",
		}
		uc := usecase.NewTargetUsecase(newRepo(stored), &mockPriceReader{})

		newPrice := dec(t, "120")
		target, err := uc.UpdatePriceTarget(ctx, "t1", usecase.UpdateTargetParams{TargetPrice: &newPrice})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !target.TargetPrice.Equal(newPrice) {
			t.Errorf("expected price 120, got %s", target.TargetPrice)
		}
		if target.TargetDate == nil || !target.TargetDate.Equal(someDate) {
			t.Error("expected target date to be kept")
		}
		if target.ThesisRationale != "original thesis" {
			t.Error("expected rationale to be kept")
		}
	})

	t.Run("clear target date", func(t *testing.T) {
		t.Parallel()

		stored := &entity.PriceTarget{ID: "t1", TargetPrice: dec(t, "100"), TargetDate: &someDate}
		uc := usecase.NewTargetUsecase(newRepo(stored), &mockPriceReader{})

		target, err := uc.UpdatePriceTarget(ctx, "t1", usecase.UpdateTargetParams{ClearTargetDate: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if target.TargetDate != nil {
			t.Error("expected target date to be cleared")
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		t.Parallel()

		stored := &entity.PriceTarget{ID: "t1", TargetPrice: dec(t, "100")}
		uc := usecase.NewTargetUsecase(newRepo(stored), &mockPriceReader{})

		bad := dec(t, "-5")
		if _, err := uc.UpdatePriceTarget(ctx, "t1", usecase.UpdateTargetParams{TargetPrice: &bad}); !errors.Is(err, usecase.ErrInvalidTargetPrice) {
			t.Errorf("expected ErrInvalidTargetPrice, got %v", err)
		}
	})

	t.Run("missing target propagates not-found", func(t *testing.T) {
		t.Parallel()

		uc := usecase.NewTargetUsecase(&mockTargetRepository{}, &mockPriceReader{})

		if _, err := uc.UpdatePriceTarget(ctx, "missing", usecase.UpdateTargetParams{}); !errors.Is(err, usecase.ErrTargetNotFound) {
			t.Errorf("expected ErrTargetNotFound, got %v", err)
		}
	})
}

// TestComputeAccuracyStats は目標群の分類と|乖離率|平均の集計をテストします。
func TestComputeAccuracyStats(t *testing.T) {
	t.Parallel()

	price := dec(t, "100")
	future := time.Now().Add(30 * 24 * time.Hour)

	targets := []entity.PriceTarget{
		{TargetPrice: dec(t, "100")},                     // met
		{TargetPrice: dec(t, "90")},                      // exceeded
		{TargetPrice: dec(t, "120")},                     // missed
		{TargetPrice: dec(t, "80"), TargetDate: &future}, // pending
	}

	stats := usecase.ComputeAccuracyStats(targets, &price)

	if stats.Met != 1 || stats.Exceeded != 1 || stats.Missed != 1 || stats.Pending != 1 {
		t.Errorf("unexpected tally: met=%d exceeded=%d missed=%d pending=%d",
			stats.Met, stats.Exceeded, stats.Missed, stats.Pending)
	}
	if stats.AverageAccuracy == nil {
		t.Fatal("expected an average accuracy")
	}
}

// TestComputeAccuracyStats_NoPrice は現在価格が不明な場合に全件pendingかつ
// 平均が未定義になることをテストします。
func TestComputeAccuracyStats_NoPrice(t *testing.T) {
	t.Parallel()

	targets := []entity.PriceTarget{
		{TargetPrice: decimal.NewFromInt(100)},
		{TargetPrice: decimal.NewFromInt(200)},
	}

	stats := usecase.ComputeAccuracyStats(targets, nil)

	if stats.Pending != 2 {
		t.Errorf("expected all targets pending, got %d", stats.Pending)
	}
	if stats.AverageAccuracy != nil {
		t.Errorf("expected nil average, got %s", stats.AverageAccuracy)
	}
}

// TestTargetUsecase_AccuracyStatsForSymbol は現在価格の読み取りと集計の連携をテストします。
func TestTargetUsecase_AccuracyStatsForSymbol(t *testing.T) {
	t.Parallel()

	price := decimal.NewFromInt(100)
	var requestedTicker string
	prices := &mockPriceReader{
		CurrentPriceFunc: func(ctx context.Context, ticker string) (*decimal.Decimal, error) {
			requestedTicker = ticker
			return &price, nil
		},
	}
	repo := &mockTargetRepository{
		ForSymbolFunc: func(ctx context.Context, ticker string) ([]entity.PriceTarget, error) {
			return []entity.PriceTarget{
				{TargetPrice: decimal.NewFromInt(100)},
				{TargetPrice: decimal.NewFromInt(150)},
			}, nil
		},
	}
	uc := usecase.NewTargetUsecase(repo, prices)

	stats, err := uc.AccuracyStatsForSymbol(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedTicker != "AAPL" {
		t.Errorf("expected normalized ticker AAPL, got %q", requestedTicker)
	}
	if stats.Met != 1 || stats.Missed != 1 {
		t.Errorf("unexpected tally: met=%d missed=%d", stats.Met, stats.Missed)
	}
}

// TestTargetUsecase_EvaluateTarget は価格取得失敗時にpending評価へ落ちることをテストします。
func TestTargetUsecase_EvaluateTarget(t *testing.T) {
	t.Parallel()

	prices := &mockPriceReader{
		CurrentPriceFunc: func(ctx context.Context, ticker string) (*decimal.Decimal, error) {
			return nil, ErrDB
		},
	}
	uc := usecase.NewTargetUsecase(&mockTargetRepository{}, prices)

	ticker := "AAPL"
	target := &entity.PriceTarget{TargetPrice: decimal.NewFromInt(100), SymbolTicker: &ticker}

	status, accuracy := uc.EvaluateTarget(context.Background(), target)
	if status != entity.StatusPending {
		t.Errorf("expected pending, got %q", status)
	}
	if accuracy != nil {
		t.Errorf("expected nil accuracy, got %s", accuracy)
	}
}
