// Package handler はtargetsフィーチャーのHTTPハンドラーを提供します。
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
	"stocknotes/internal/feature/targets/domain/entity"
	"stocknotes/internal/feature/targets/usecase"
)

// TargetsUsecase は価格目標操作のユースケースインターフェースを定義します。
type TargetsUsecase interface {
	CreatePriceTarget(ctx context.Context, p usecase.CreateTargetParams) (*entity.PriceTarget, error)
	GetPriceTarget(ctx context.Context, id string) (*entity.PriceTarget, error)
	ListPriceTargets(ctx context.Context) ([]entity.PriceTarget, error)
	TargetsForSymbol(ctx context.Context, ticker string) ([]entity.PriceTarget, error)
	UpdatePriceTarget(ctx context.Context, id string, p usecase.UpdateTargetParams) (*entity.PriceTarget, error)
	DeletePriceTarget(ctx context.Context, id string) error
	EvaluateTarget(ctx context.Context, t *entity.PriceTarget) (entity.PriceTargetStatus, *decimal.Decimal)
	AccuracyStatsForSymbol(ctx context.Context, ticker string) (usecase.AccuracyStats, error)
}

// TargetHandler は価格目標のHTTPリクエストを処理します。
type TargetHandler struct {
	targets TargetsUsecase
}

// NewTargetHandler はTargetHandlerの新しいインスタンスを生成します。
func NewTargetHandler(targets TargetsUsecase) *TargetHandler {
	return &TargetHandler{targets: targets}
}

// Create は価格目標を作成します。
//
// エンドポイント: POST /targets
func (h *TargetHandler) Create(c *gin.Context) {
	var req api.CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	price, err := decimal.NewFromString(req.TargetPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid target price"})
		return
	}

	p := usecase.CreateTargetParams{
		TargetPrice:     price,
		ThesisRationale: req.ThesisRationale,
		SymbolTicker:    req.SymbolTicker,
		NoteID:          req.NoteID,
	}
	if req.TargetDate != nil {
		date, err := time.Parse(time.RFC3339, *req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid target date"})
			return
		}
		p.TargetDate = &date
	}

	target, err := h.targets.CreatePriceTarget(c.Request.Context(), p)
	if err != nil {
		writeTargetError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toTargetResponse(c.Request.Context(), target))
}

// List は価格目標一覧を返します。?symbol= で銘柄絞り込みができます。
//
// エンドポイント: GET /targets
func (h *TargetHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		targets []entity.PriceTarget
		err     error
	)
	if ticker := c.Query("symbol"); ticker != "" {
		targets, err = h.targets.TargetsForSymbol(ctx, ticker)
	} else {
		targets, err = h.targets.ListPriceTargets(ctx)
	}
	if err != nil {
		writeTargetError(c, err)
		return
	}

	out := make([]api.TargetResponse, 0, len(targets))
	for i := range targets {
		out = append(out, h.toTargetResponse(ctx, &targets[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get は単一の価格目標を返します。
//
// エンドポイント: GET /targets/:id
func (h *TargetHandler) Get(c *gin.Context) {
	target, err := h.targets.GetPriceTarget(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeTargetError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toTargetResponse(c.Request.Context(), target))
}

// Update は価格目標を部分更新します。
//
// エンドポイント: PATCH /targets/:id
func (h *TargetHandler) Update(c *gin.Context) {
	var req api.UpdateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request"})
		return
	}

	p := usecase.UpdateTargetParams{
		ThesisRationale: req.ThesisRationale,
		ClearTargetDate: req.ClearTargetDate,
	}
	if req.TargetPrice != nil {
		price, err := decimal.NewFromString(*req.TargetPrice)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid target price"})
			return
		}
		p.TargetPrice = &price
	}
	if req.TargetDate != nil {
		date, err := time.Parse(time.RFC3339, *req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid target date"})
			return
		}
		p.TargetDate = &date
	}

	target, err := h.targets.UpdatePriceTarget(c.Request.Context(), c.Param("id"), p)
	if err != nil {
		writeTargetError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toTargetResponse(c.Request.Context(), target))
}

// Delete は価格目標を削除します。
//
// エンドポイント: DELETE /targets/:id
func (h *TargetHandler) Delete(c *gin.Context) {
	if err := h.targets.DeletePriceTarget(c.Request.Context(), c.Param("id")); err != nil {
		writeTargetError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats は銘柄の目標的中集計を返します。
//
// エンドポイント: GET /symbols/:ticker/targets/stats
func (h *TargetHandler) Stats(c *gin.Context) {
	stats, err := h.targets.AccuracyStatsForSymbol(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		writeTargetError(c, err)
		return
	}
	out := api.AccuracyStatsResponse{
		Met:      stats.Met,
		Exceeded: stats.Exceeded,
		Missed:   stats.Missed,
		Pending:  stats.Pending,
	}
	if stats.AverageAccuracy != nil {
		s := stats.AverageAccuracy.StringFixed(2)
		out.AverageAccuracy = &s
	}
	c.JSON(http.StatusOK, out)
}

func writeTargetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidTargetPrice):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		slog.Error("target operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
	}
}

func (h *TargetHandler) toTargetResponse(ctx context.Context, target *entity.PriceTarget) api.TargetResponse {
	status, accuracy := h.targets.EvaluateTarget(ctx, target)

	out := api.TargetResponse{
		ID:              target.ID,
		TargetPrice:     target.TargetPrice.String(),
		ThesisRationale: target.ThesisRationale,
		CreatedDate:     target.CreatedDate.UTC().Format(time.RFC3339),
		SymbolTicker:    target.SymbolTicker,
		NoteID:          target.NoteID,
		Status:          string(status),
	}
	if target.TargetDate != nil {
		s := target.TargetDate.UTC().Format(time.RFC3339)
		out.TargetDate = &s
	}
	if accuracy != nil {
		s := accuracy.StringFixed(2)
		out.Accuracy = &s
	}
	return out
}
