package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/shared/ratelimiter"
)

// snapTimestampFormat はスナップノート本文に埋め込むタイムスタンプの形式です。
const snapTimestampFormat = "2006-01-02 15:04"

// SymbolRepository は銘柄の永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SymbolRepository interface {
	Create(ctx context.Context, symbol *entity.Symbol) error
	Save(ctx context.Context, symbol *entity.Symbol) error
	FindByTicker(ctx context.Context, ticker string) (*entity.Symbol, error)
	// List は全銘柄をティッカー昇順で返します。
	List(ctx context.Context) ([]entity.Symbol, error)
	// Delete は銘柄を削除し、所有するノートを削除、価格目標からの参照を
	// nil化します（§依存関係の明示的な削除ルーチン）。
	Delete(ctx context.Context, ticker string) error
	NoteCount(ctx context.Context, ticker string) (int64, error)
	LatestNoteDate(ctx context.Context, ticker string) (*time.Time, error)
}

// QuoteRepository は外部クオートプロバイダを抽象化します。
// 常に失敗しうるものとして扱い、コアの正しさには必須としません。
type QuoteRepository interface {
	FetchPrice(ctx context.Context, ticker string) (entity.Quote, error)
	SearchSymbols(ctx context.Context, query string) ([]entity.SymbolSearchResult, error)
}

// QuoteCacheInvalidator はキャッシュ層が任意で実装するインターフェースです。
// 強制リフレッシュ時に古いキャッシュエントリを飛ばすために使います。
type QuoteCacheInvalidator interface {
	Invalidate(ctx context.Context, ticker string) error
}

// NoteWriter はスナップノートの作成を抽象化します。notesフィーチャーが実装します。
type NoteWriter interface {
	CreateSnapNote(ctx context.Context, ticker, content string) (string, error)
}

// RefreshResult は一括価格更新の結果です。個別の失敗はバッチを中断しません。
type RefreshResult struct {
	Updated int
	Failed  []string
}

// SymbolUsecase は銘柄操作のユースケースを定義します。
type SymbolUsecase struct {
	symbols SymbolRepository
	quotes  QuoteRepository
	notes   NoteWriter
	limiter ratelimiter.RateLimiterInterface
}

// NewSymbolUsecase はSymbolUsecaseの新しいインスタンスを生成します。
func NewSymbolUsecase(symbols SymbolRepository, quotes QuoteRepository, notes NoteWriter, limiter ratelimiter.RateLimiterInterface) *SymbolUsecase {
	return &SymbolUsecase{symbols: symbols, quotes: quotes, notes: notes, limiter: limiter}
}

// NormalizeTicker はティッカーを正規形（大文字・前後空白除去）に変換します。
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// GetOrCreateSymbol はティッカーで銘柄を取得し、存在しなければ作成して即時に
// 永続化します。既存銘柄が見つかった場合、companyNameは上書きしません。
func (su *SymbolUsecase) GetOrCreateSymbol(ctx context.Context, ticker, companyName string) (*entity.Symbol, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	symbol, err := su.symbols.FindByTicker(ctx, ticker)
	if err == nil {
		return symbol, nil
	}
	if err != ErrSymbolNotFound {
		return nil, err
	}

	symbol = &entity.Symbol{Ticker: ticker, CompanyName: companyName}
	if err := su.symbols.Create(ctx, symbol); err != nil {
		return nil, fmt.Errorf("create symbol: %w", err)
	}
	return symbol, nil
}

// GetSymbol はティッカーで銘柄を取得します。
func (su *SymbolUsecase) GetSymbol(ctx context.Context, ticker string) (*entity.Symbol, error) {
	return su.symbols.FindByTicker(ctx, NormalizeTicker(ticker))
}

// ListSymbols は全銘柄をティッカー昇順で返します。
func (su *SymbolUsecase) ListSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return su.symbols.List(ctx)
}

// DeleteSymbol は銘柄と所有するノートを削除します。価格目標からの参照はnil化されます。
func (su *SymbolUsecase) DeleteSymbol(ctx context.Context, ticker string) error {
	return su.symbols.Delete(ctx, NormalizeTicker(ticker))
}

// NoteCount は銘柄に紐づくノート数を返します。
func (su *SymbolUsecase) NoteCount(ctx context.Context, ticker string) (int64, error) {
	return su.symbols.NoteCount(ctx, NormalizeTicker(ticker))
}

// LatestNoteDate は銘柄に紐づく最新ノートの作成日時を返します。ノートがなければnilです。
func (su *SymbolUsecase) LatestNoteDate(ctx context.Context, ticker string) (*time.Time, error) {
	return su.symbols.LatestNoteDate(ctx, NormalizeTicker(ticker))
}

// RefreshPrice は1銘柄の現在価格をプロバイダから取得して更新します。
// 会社名はプロバイダが空でない値を返した場合のみ更新します。
func (su *SymbolUsecase) RefreshPrice(ctx context.Context, ticker string) (*entity.Symbol, error) {
	symbol, err := su.symbols.FindByTicker(ctx, NormalizeTicker(ticker))
	if err != nil {
		return nil, err
	}

	// 明示的なリフレッシュはキャッシュ済みの価格ではなくプロバイダの現在値を読む
	if inv, ok := su.quotes.(QuoteCacheInvalidator); ok {
		if err := inv.Invalidate(ctx, symbol.Ticker); err != nil {
			slog.Warn("failed to invalidate cached quote", "ticker", symbol.Ticker, "error", err)
		}
	}

	quote, err := su.quotes.FetchPrice(ctx, symbol.Ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch price for %s: %w", symbol.Ticker, err)
	}

	symbol.UpdatePrice(quote.Price)
	if quote.CompanyName != "" {
		symbol.CompanyName = quote.CompanyName
	}
	if err := su.symbols.Save(ctx, symbol); err != nil {
		return nil, fmt.Errorf("save symbol %s: %w", symbol.Ticker, err)
	}
	return symbol, nil
}

// RefreshAllPrices は全銘柄の価格を一括更新します。取得（ネットワーク）側のみを
// 並列化し、取得結果の書き込みは単一ゴルーチンで直列に適用します。
// 1銘柄の失敗は他の銘柄の更新を妨げません。
func (su *SymbolUsecase) RefreshAllPrices(ctx context.Context) (RefreshResult, error) {
	symbols, err := su.symbols.List(ctx)
	if err != nil {
		return RefreshResult{}, err
	}

	type fetchResult struct {
		ticker string
		quote  entity.Quote
		err    error
	}

	results := make(chan fetchResult, len(symbols))
	var wg sync.WaitGroup
	for _, s := range symbols {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			su.limiter.WaitIfNeeded()
			quote, err := su.quotes.FetchPrice(ctx, ticker)
			results <- fetchResult{ticker: ticker, quote: quote, err: err}
		}(s.Ticker)
	}
	wg.Wait()
	close(results)

	// 書き込みは直列に適用する（single-writerモデル）
	var out RefreshResult
	for r := range results {
		if r.err != nil {
			slog.Error("failed to fetch price", "ticker", r.ticker, "error", r.err)
			out.Failed = append(out.Failed, r.ticker)
			continue
		}
		symbol, err := su.symbols.FindByTicker(ctx, r.ticker)
		if err != nil {
			slog.Error("failed to load symbol for price update", "ticker", r.ticker, "error", err)
			out.Failed = append(out.Failed, r.ticker)
			continue
		}
		symbol.UpdatePrice(r.quote.Price)
		if r.quote.CompanyName != "" {
			symbol.CompanyName = r.quote.CompanyName
		}
		if err := su.symbols.Save(ctx, symbol); err != nil {
			slog.Error("failed to save refreshed price", "ticker", r.ticker, "error", err)
			out.Failed = append(out.Failed, r.ticker)
			continue
		}
		out.Updated++
	}
	return out, nil
}

// QuickSnap はティッカーを解決（なければ作成）し、現在価格のスナップノートを
// 作成します。価格取得の失敗は意図的に握りつぶし、価格不明のままノートを作成
// します（この操作は価格取得失敗で失敗してはなりません）。
func (su *SymbolUsecase) QuickSnap(ctx context.Context, ticker, additionalNote string) (string, error) {
	symbol, err := su.GetOrCreateSymbol(ctx, ticker, "")
	if err != nil {
		return "", err
	}

	priceText := "N/A"
	quote, err := su.quotes.FetchPrice(ctx, symbol.Ticker)
	if err != nil {
		slog.Warn("snap price fetch failed; creating note without price", "ticker", symbol.Ticker, "error", err)
	} else {
		symbol.UpdatePrice(quote.Price)
		if quote.CompanyName != "" {
			symbol.CompanyName = quote.CompanyName
		}
		if err := su.symbols.Save(ctx, symbol); err != nil {
			slog.Error("failed to save snapped price", "ticker", symbol.Ticker, "error", err)
		}
		if quote.Price != nil {
			priceText = "$" + quote.Price.StringFixed(2)
		}
	}

	content := fmt.Sprintf("Snap: %s @ %s - %s", symbol.Ticker, priceText, time.Now().Format(snapTimestampFormat))
	if additionalNote != "" {
		content += "\n\n" + additionalNote
	}

	noteID, err := su.notes.CreateSnapNote(ctx, symbol.Ticker, content)
	if err != nil {
		return "", fmt.Errorf("create snap note: %w", err)
	}
	return noteID, nil
}

// CurrentPrice は銘柄に保持されている現在価格を返します。未取得の場合はnilです。
func (su *SymbolUsecase) CurrentPrice(ctx context.Context, ticker string) (*decimal.Decimal, error) {
	symbol, err := su.symbols.FindByTicker(ctx, NormalizeTicker(ticker))
	if err != nil {
		return nil, err
	}
	return symbol.CurrentPrice, nil
}

// SearchSymbols はプロバイダのオートコンプリート検索をそのまま返します。
func (su *SymbolUsecase) SearchSymbols(ctx context.Context, query string) ([]entity.SymbolSearchResult, error) {
	return su.quotes.SearchSymbols(ctx, query)
}
