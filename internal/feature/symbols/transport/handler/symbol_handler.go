// Package handler はsymbolsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"stocknotes/internal/api"
	"stocknotes/internal/feature/symbols/domain/entity"
	"stocknotes/internal/feature/symbols/usecase"
)

// SymbolsUsecase は銘柄操作のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SymbolsUsecase interface {
	GetOrCreateSymbol(ctx context.Context, ticker, companyName string) (*entity.Symbol, error)
	GetSymbol(ctx context.Context, ticker string) (*entity.Symbol, error)
	ListSymbols(ctx context.Context) ([]entity.Symbol, error)
	DeleteSymbol(ctx context.Context, ticker string) error
	NoteCount(ctx context.Context, ticker string) (int64, error)
	LatestNoteDate(ctx context.Context, ticker string) (*time.Time, error)
	RefreshPrice(ctx context.Context, ticker string) (*entity.Symbol, error)
	RefreshAllPrices(ctx context.Context) (usecase.RefreshResult, error)
	QuickSnap(ctx context.Context, ticker, additionalNote string) (string, error)
	SearchSymbols(ctx context.Context, query string) ([]entity.SymbolSearchResult, error)
}

// SymbolHandler は銘柄のHTTPリクエストを処理します。
type SymbolHandler struct {
	symbols SymbolsUsecase
}

// NewSymbolHandler はSymbolHandlerの新しいインスタンスを生成します。
func NewSymbolHandler(symbols SymbolsUsecase) *SymbolHandler {
	return &SymbolHandler{symbols: symbols}
}

// Create は銘柄をトラッキング対象に登録します。既存の場合はそれを返します。
//
// エンドポイント: POST /symbols
func (h *SymbolHandler) Create(c *gin.Context) {
	var req api.CreateSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	symbol, err := h.symbols.GetOrCreateSymbol(c.Request.Context(), req.Ticker, req.CompanyName)
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toSymbolResponse(c.Request.Context(), symbol))
}

// List はトラッキング中の全銘柄をノート数付きで返します。
//
// エンドポイント: GET /symbols
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.symbols.ListSymbols(c.Request.Context())
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	out := make([]api.SymbolResponse, 0, len(symbols))
	for i := range symbols {
		out = append(out, h.toSymbolResponse(c.Request.Context(), &symbols[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は単一銘柄を返します。
//
// エンドポイント: GET /symbols/:ticker
func (h *SymbolHandler) Get(c *gin.Context) {
	symbol, err := h.symbols.GetSymbol(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toSymbolResponse(c.Request.Context(), symbol))
}

// Delete は銘柄と配下のノートを削除します。
//
// エンドポイント: DELETE /symbols/:ticker
func (h *SymbolHandler) Delete(c *gin.Context) {
	if err := h.symbols.DeleteSymbol(c.Request.Context(), c.Param("ticker")); err != nil {
		writeSymbolError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh は単一銘柄の価格を更新します。
//
// エンドポイント: POST /symbols/:ticker/refresh
func (h *SymbolHandler) Refresh(c *gin.Context) {
	symbol, err := h.symbols.RefreshPrice(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toSymbolResponse(c.Request.Context(), symbol))
}

// RefreshAll は全銘柄の価格を一括更新します。個別の失敗は結果に含めます。
//
// エンドポイント: POST /symbols/refresh
func (h *SymbolHandler) RefreshAll(c *gin.Context) {
	result, err := h.symbols.RefreshAllPrices(c.Request.Context())
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	out := api.RefreshResponse{Updated: result.Updated, Failed: result.Failed}
	if out.Failed == nil {
		out.Failed = []string{}
	}
	c.JSON(http.StatusOK, out)
}

// Search はプロバイダのオートコンプリート検索結果を返します。
//
// エンドポイント: GET /symbols/search?q=app
func (h *SymbolHandler) Search(c *gin.Context) {
	results, err := h.symbols.SearchSymbols(c.Request.Context(), c.Query("q"))
	if err != nil {
		slog.Warn("symbol search failed", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "symbol search failed"})
		return
	}
	out := make([]api.SymbolSearchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, api.SymbolSearchResponse{Ticker: r.Ticker, CompanyName: r.CompanyName})
	}
	c.JSON(http.StatusOK, out)
}

// Snap は現在価格を刻んだスナップノートを作成します。
//
// エンドポイント: POST /snaps
func (h *SymbolHandler) Snap(c *gin.Context) {
	var req api.CreateSnapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}
	noteID, err := h.symbols.QuickSnap(c.Request.Context(), req.Ticker, req.Note)
	if err != nil {
		writeSymbolError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"noteId": noteID})
}

func writeSymbolError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrSymbolNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrEmptyTicker):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("symbol operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

// toSymbolResponse は銘柄とその集計値（ノート数・最終記録日）をDTOに変換します。
// 集計の読み取り失敗は表示用途のためゼロ値に落とします。
func (h *SymbolHandler) toSymbolResponse(ctx context.Context, symbol *entity.Symbol) api.SymbolResponse {
	out := api.SymbolResponse{
		Ticker:      symbol.Ticker,
		CompanyName: symbol.CompanyName,
	}
	if symbol.CurrentPrice != nil {
		out.CurrentPrice = decimalString(symbol.CurrentPrice)
	}
	if symbol.LastPriceUpdate != nil {
		s := symbol.LastPriceUpdate.UTC().Format(time.RFC3339)
		out.LastPriceUpdate = &s
	}
	if count, err := h.symbols.NoteCount(ctx, symbol.Ticker); err == nil {
		out.NoteCount = count
	}
	if latest, err := h.symbols.LatestNoteDate(ctx, symbol.Ticker); err == nil && latest != nil {
		s := latest.UTC().Format(time.RFC3339)
		out.LatestNoteDate = &s
	}
	return out
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
