package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/targets/domain/entity"
)

// TargetRepository は価格目標の永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TargetRepository interface {
	Create(ctx context.Context, target *entity.PriceTarget) error
	Save(ctx context.Context, target *entity.PriceTarget) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.PriceTarget, error)
	// List は全価格目標をcreatedDate降順で返します。
	List(ctx context.Context) ([]entity.PriceTarget, error)
	ForSymbol(ctx context.Context, ticker string) ([]entity.PriceTarget, error)
}

// PriceReader は銘柄の現在価格の読み取りを抽象化します。symbolsフィーチャーが実装します。
type PriceReader interface {
	CurrentPrice(ctx context.Context, ticker string) (*decimal.Decimal, error)
}

// CreateTargetParams は価格目標作成時の入力です。
type CreateTargetParams struct {
	TargetPrice     decimal.Decimal
	TargetDate      *time.Time
	ThesisRationale string
	SymbolTicker    *string
	NoteID          *string
}

// UpdateTargetParams は価格目標の部分更新の入力です。nilのフィールドは変更されません。
// ClearTargetDateがtrueの場合、目標日を未設定に戻します。
type UpdateTargetParams struct {
	TargetPrice     *decimal.Decimal
	TargetDate      *time.Time
	ClearTargetDate bool
	ThesisRationale *string
}

// AccuracyStats は銘柄の価格目標の的中集計です。
// AverageAccuracyは|accuracyPercentage|の平均で、現在価格が不明な目標は
// 平均の対象外です。対象がひとつもない場合はnilです。
type AccuracyStats struct {
	Met             int
	Exceeded        int
	Missed          int
	Pending         int
	AverageAccuracy *decimal.Decimal
}

// TargetUsecase は価格目標操作のユースケースを定義します。
type TargetUsecase struct {
	targets TargetRepository
	prices  PriceReader
}

// NewTargetUsecase はTargetUsecaseの新しいインスタンスを生成します。
func NewTargetUsecase(targets TargetRepository, prices PriceReader) *TargetUsecase {
	return &TargetUsecase{targets: targets, prices: prices}
}

// CreatePriceTarget は新しい価格目標を作成して永続化します。
func (tu *TargetUsecase) CreatePriceTarget(ctx context.Context, p CreateTargetParams) (*entity.PriceTarget, error) {
	if !p.TargetPrice.IsPositive() {
		return nil, ErrInvalidTargetPrice
	}

	var ticker *string
	if p.SymbolTicker != nil {
		t := strings.ToUpper(strings.TrimSpace(*p.SymbolTicker))
		ticker = &t
	}

	target := &entity.PriceTarget{
		ID:              uuid.NewString(),
		TargetPrice:     p.TargetPrice,
		TargetDate:      p.TargetDate,
		ThesisRationale: p.ThesisRationale,
		CreatedDate:     time.Now(),
		SymbolTicker:    ticker,
		NoteID:          p.NoteID,
	}
	if err := tu.targets.Create(ctx, target); err != nil {
		return nil, fmt.Errorf("create price target: %w", err)
	}
	return target, nil
}

// GetPriceTarget はIDで価格目標を取得します。
func (tu *TargetUsecase) GetPriceTarget(ctx context.Context, id string) (*entity.PriceTarget, error) {
	return tu.targets.FindByID(ctx, id)
}

// ListPriceTargets は全価格目標をcreatedDate降順で返します。
func (tu *TargetUsecase) ListPriceTargets(ctx context.Context) ([]entity.PriceTarget, error) {
	return tu.targets.List(ctx)
}

// TargetsForSymbol は銘柄の価格目標をcreatedDate降順で返します。
func (tu *TargetUsecase) TargetsForSymbol(ctx context.Context, ticker string) ([]entity.PriceTarget, error) {
	return tu.targets.ForSymbol(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
}

// UpdatePriceTarget は価格目標を部分更新します。
func (tu *TargetUsecase) UpdatePriceTarget(ctx context.Context, id string, p UpdateTargetParams) (*entity.PriceTarget, error) {
	target, err := tu.targets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.TargetPrice != nil {
		if !p.TargetPrice.IsPositive() {
			return nil, ErrInvalidTargetPrice
		}
		target.TargetPrice = *p.TargetPrice
	}
	if p.ClearTargetDate {
		target.TargetDate = nil
	} else if p.TargetDate != nil {
		target.TargetDate = p.TargetDate
	}
	if p.ThesisRationale != nil {
		target.ThesisRationale = *p.ThesisRationale
	}

	if err := tu.targets.Save(ctx, target); err != nil {
		return nil, fmt.Errorf("update price target: %w", err)
	}
	return target, nil
}

// DeletePriceTarget は価格目標を削除します。
func (tu *TargetUsecase) DeletePriceTarget(ctx context.Context, id string) error {
	return tu.targets.Delete(ctx, id)
}

// EvaluateTarget は目標のステータスと符号付き乖離率を返します。
// 紐づく銘柄が無い、または現在価格が取得できない場合はpendingとして評価します。
func (tu *TargetUsecase) EvaluateTarget(ctx context.Context, t *entity.PriceTarget) (entity.PriceTargetStatus, *decimal.Decimal) {
	var price *decimal.Decimal
	if t.SymbolTicker != nil {
		if p, err := tu.prices.CurrentPrice(ctx, *t.SymbolTicker); err == nil {
			price = p
		}
	}
	return t.Status(price), t.AccuracyPercentage(price)
}

// ComputeAccuracyStats は与えられた現在価格で目標群を分類・集計します。
func ComputeAccuracyStats(targets []entity.PriceTarget, currentPrice *decimal.Decimal) AccuracyStats {
	var stats AccuracyStats
	var sum decimal.Decimal
	var defined int

	for i := range targets {
		switch targets[i].Status(currentPrice) {
		case entity.StatusMet:
			stats.Met++
		case entity.StatusExceeded:
			stats.Exceeded++
		case entity.StatusMissed:
			stats.Missed++
		case entity.StatusPending:
			stats.Pending++
		}

		if acc := targets[i].AccuracyPercentage(currentPrice); acc != nil {
			sum = sum.Add(acc.Abs())
			defined++
		}
	}

	if defined > 0 {
		avg := sum.Div(decimal.NewFromInt(int64(defined)))
		stats.AverageAccuracy = &avg
	}
	return stats
}

// AccuracyStatsForSymbol は銘柄の現在価格を読み取り、その銘柄の全価格目標の
// 的中集計を返します。
func (tu *TargetUsecase) AccuracyStatsForSymbol(ctx context.Context, ticker string) (AccuracyStats, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	currentPrice, err := tu.prices.CurrentPrice(ctx, ticker)
	if err != nil {
		return AccuracyStats{}, err
	}
	targets, err := tu.targets.ForSymbol(ctx, ticker)
	if err != nil {
		return AccuracyStats{}, err
	}
	return ComputeAccuracyStats(targets, currentPrice), nil
}
