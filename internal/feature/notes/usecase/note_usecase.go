package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"stocknotes/internal/feature/notes/domain/entity"
)

const (
	// DefaultAutosaveDelay は編集からデバウンス保存までの静止期間です。
	DefaultAutosaveDelay = 2 * time.Second
	// DefaultRecentLimit は直近ノート取得のデフォルト件数です。
	DefaultRecentLimit = 10
)

// NoteRepository はノートの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*entity.Note, error)
	// List は全ノートをcreatedDate降順で返します。
	List(ctx context.Context) ([]entity.Note, error)
	Recent(ctx context.Context, limit int) ([]entity.Note, error)
	// Search は本文・ティッカー・会社名に対する大文字小文字を区別しない部分一致検索です。
	Search(ctx context.Context, query string) ([]entity.Note, error)
	ForSymbol(ctx context.Context, ticker string) ([]entity.Note, error)
	ForTag(ctx context.Context, tagName string) ([]entity.Note, error)
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	AppendTag(ctx context.Context, note *entity.Note, tag entity.Tag) error
	RemoveTag(ctx context.Context, note *entity.Note, tagName string) error
}

// ImageProcessor は添付画像のリサイズ・圧縮処理を抽象化します。
// デコードできない入力に対してはエラーを返します。
type ImageProcessor interface {
	Process(data []byte) ([]byte, error)
}

// CreateNoteParams はノート作成時の入力です。
type CreateNoteParams struct {
	Content      string
	SymbolTicker *string
	Tags         []entity.Tag
	IsSnap       bool
	Conviction   *int
	Sentiment    *entity.Sentiment
}

// NoteUsecase はノート操作のユースケースを定義します。
type NoteUsecase struct {
	notes    NoteRepository
	images   ImageProcessor
	autosave *autosaver
}

// NewNoteUsecase はNoteUsecaseの新しいインスタンスを生成します。
// autosaveDelayが0以下の場合はDefaultAutosaveDelayを使用します。
func NewNoteUsecase(notes NoteRepository, images ImageProcessor, autosaveDelay time.Duration) *NoteUsecase {
	if autosaveDelay <= 0 {
		autosaveDelay = DefaultAutosaveDelay
	}
	nu := &NoteUsecase{notes: notes, images: images}
	nu.autosave = newAutosaver(autosaveDelay, func(note *entity.Note) {
		// デバウンス発火時には呼び出し元が既にいないため、失敗はログで残す
		if err := nu.notes.Update(context.Background(), note); err != nil {
			slog.Error("autosave failed", "note_id", note.ID, "error", err)
		}
	})
	return nu
}

// CreateNote は新しいノートを作成して即時に永続化します。
// 本文は5000文字で切り詰められます。
func (nu *NoteUsecase) CreateNote(ctx context.Context, p CreateNoteParams) (*entity.Note, error) {
	if p.Conviction != nil && !entity.ValidConviction(*p.Conviction) {
		return nil, ErrInvalidConviction
	}
	if p.Sentiment != nil && !p.Sentiment.Valid() {
		return nil, ErrInvalidSentiment
	}

	now := time.Now()
	note := &entity.Note{
		ID:             uuid.NewString(),
		CreatedDate:    now,
		LastEditedDate: now,
		IsSnap:         p.IsSnap,
		SymbolTicker:   p.SymbolTicker,
		Tags:           p.Tags,
		Conviction:     p.Conviction,
		Sentiment:      p.Sentiment,
	}
	note.UpdateContent(p.Content)

	if err := nu.notes.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

// UpdateContent は本文を更新し、静止期間後のデバウンス保存を予約します。
// 静止期間内の再編集は保留中の保存をキャンセルして置き換えるため、
// 永続化されるのは最後の編集内容のみです。
func (nu *NoteUsecase) UpdateContent(ctx context.Context, id, content string) (*entity.Note, error) {
	note, err := nu.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note.UpdateContent(content)
	nu.autosave.Schedule(note)
	return note, nil
}

// SaveNow はデバウンスをバイパスして同期的に保存します。
// 保留中のデバウンス保存があればキャンセルし、そのスナップショットを保存します。
func (nu *NoteUsecase) SaveNow(ctx context.Context, id string) (*entity.Note, error) {
	note, ok := nu.autosave.TakePending(id)
	if !ok {
		var err error
		note, err = nu.notes.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		note.LastEditedDate = time.Now()
	}
	if err := nu.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// SetConviction は確信度を設定します。範囲外の値は拒否します（クランプしません）。
func (nu *NoteUsecase) SetConviction(ctx context.Context, id string, conviction *int) (*entity.Note, error) {
	if conviction != nil && !entity.ValidConviction(*conviction) {
		return nil, ErrInvalidConviction
	}
	note, err := nu.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Conviction = conviction
	note.LastEditedDate = time.Now()
	if err := nu.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update conviction: %w", err)
	}
	return note, nil
}

// SetSentiment はセンチメントを設定します。nilで未設定に戻します。
func (nu *NoteUsecase) SetSentiment(ctx context.Context, id string, sentiment *entity.Sentiment) (*entity.Note, error) {
	if sentiment != nil && !sentiment.Valid() {
		return nil, ErrInvalidSentiment
	}
	note, err := nu.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note.Sentiment = sentiment
	note.LastEditedDate = time.Now()
	if err := nu.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("update sentiment: %w", err)
	}
	return note, nil
}

// AttachImage は画像を処理してノートに添付します。
// 上限（3枚）に達している場合はErrImageLimitReachedを返し、既存の添付は変更しません。
func (nu *NoteUsecase) AttachImage(ctx context.Context, id string, raw []byte) (*entity.Note, error) {
	processed, err := nu.images.Process(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	note, err := nu.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !note.AddImage(processed) {
		return nil, ErrImageLimitReached
	}
	if err := nu.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("attach image: %w", err)
	}
	return note, nil
}

// RemoveImage は指定位置の画像を取り除きます。範囲外のインデックスは何もしません。
func (nu *NoteUsecase) RemoveImage(ctx context.Context, id string, index int) (*entity.Note, error) {
	note, err := nu.notes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	note.RemoveImage(index)
	if err := nu.notes.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("remove image: %w", err)
	}
	return note, nil
}

// GetNote はIDでノートを取得します。
func (nu *NoteUsecase) GetNote(ctx context.Context, id string) (*entity.Note, error) {
	return nu.notes.FindByID(ctx, id)
}

// DeleteNote はノートを削除します。
func (nu *NoteUsecase) DeleteNote(ctx context.Context, id string) error {
	return nu.notes.Delete(ctx, id)
}

// ListNotes は全ノートをcreatedDate降順で返します。
func (nu *NoteUsecase) ListNotes(ctx context.Context) ([]entity.Note, error) {
	return nu.notes.List(ctx)
}

// RecentNotes は直近のノートを返します。limitが0以下の場合はデフォルト値を使用します。
func (nu *NoteUsecase) RecentNotes(ctx context.Context, limit int) ([]entity.Note, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return nu.notes.Recent(ctx, limit)
}

// SearchNotes は本文・ティッカー・会社名に対する部分一致検索を行います。
// 空クエリは全件を返します。
func (nu *NoteUsecase) SearchNotes(ctx context.Context, query string) ([]entity.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nu.notes.List(ctx)
	}
	return nu.notes.Search(ctx, query)
}

// NotesForSymbol はティッカー（自然キー）でノートを絞り込みます。
func (nu *NoteUsecase) NotesForSymbol(ctx context.Context, ticker string) ([]entity.Note, error) {
	return nu.notes.ForSymbol(ctx, strings.ToUpper(strings.TrimSpace(ticker)))
}

// NotesForTag はタグ名（自然キー）でノートを絞り込みます。
func (nu *NoteUsecase) NotesForTag(ctx context.Context, tagName string) ([]entity.Note, error) {
	return nu.notes.ForTag(ctx, entity.NormalizeTagName(tagName))
}

// CountNotes は全ノート数を返します。
func (nu *NoteUsecase) CountNotes(ctx context.Context) (int64, error) {
	return nu.notes.Count(ctx)
}

// CountNotesThisMonth は今月作成されたノート数を返します。
func (nu *NoteUsecase) CountNotesThisMonth(ctx context.Context) (int64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return nu.notes.CountSince(ctx, startOfMonth)
}

// SuggestSentiment はノート本文からセンチメントを推定します。提案のみで、
// ノートの状態は変更しません。
func (nu *NoteUsecase) SuggestSentiment(text string) *entity.Sentiment {
	return AnalyzeSentiment(text)
}

// CreateSnapNote は価格スナップショット用の自動生成ノートを作成します。
// symbolsフィーチャーのクイックスナップ操作から呼ばれます。
func (nu *NoteUsecase) CreateSnapNote(ctx context.Context, ticker, content string) (string, error) {
	note, err := nu.CreateNote(ctx, CreateNoteParams{
		Content:      content,
		SymbolTicker: &ticker,
		IsSnap:       true,
	})
	if err != nil {
		return "", err
	}
	return note.ID, nil
}
