package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"stocknotes/internal/feature/notes/domain/entity"
)

// DefaultSuggestedTagLimit はおすすめタグのデフォルト件数です。
const DefaultSuggestedTagLimit = 10

// TagRepository はタグの永続化レイヤーを抽象化します。
// List/Searchが返すタグはNoteCountが設定されていることを前提とします。
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	FindByName(ctx context.Context, name string) (*entity.Tag, error)
	// List は全タグを名前昇順・参照ノート数付きで返します。
	List(ctx context.Context) ([]entity.Tag, error)
	// Delete はノートからの参照を外したうえでタグを削除します（ノート自体は残します）。
	Delete(ctx context.Context, name string) error
}

// TagUsecase はタグ操作のユースケースを定義します。
type TagUsecase struct {
	tags  TagRepository
	notes NoteRepository
}

// NewTagUsecase はTagUsecaseの新しいインスタンスを生成します。
func NewTagUsecase(tags TagRepository, notes NoteRepository) *TagUsecase {
	return &TagUsecase{tags: tags, notes: notes}
}

// GetOrCreateTag は正規化した名前（小文字・前後空白除去）でタグを取得し、
// 存在しなければ作成します。大文字小文字や空白の違いは同一タグに解決されます。
func (tu *TagUsecase) GetOrCreateTag(ctx context.Context, name string) (*entity.Tag, error) {
	normalized := entity.NormalizeTagName(name)

	tag, err := tu.tags.FindByName(ctx, normalized)
	if err == nil {
		return tag, nil
	}
	if err != ErrTagNotFound {
		return nil, err
	}

	tag = &entity.Tag{Name: normalized}
	if err := tu.tags.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// ListTags は全タグを名前昇順で返します。
func (tu *TagUsecase) ListTags(ctx context.Context) ([]entity.Tag, error) {
	return tu.tags.List(ctx)
}

// SearchTags は部分一致でタグを検索し、参照ノート数の降順で返します。
// 同数の場合の順序は安定です（元の並び順を保持）。
func (tu *TagUsecase) SearchTags(ctx context.Context, query string) ([]entity.Tag, error) {
	all, err := tu.tags.List(ctx)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	matched := make([]entity.Tag, 0, len(all))
	for _, t := range all {
		if strings.Contains(t.Name, lowered) {
			matched = append(matched, t)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].NoteCount > matched[j].NoteCount
	})
	return matched, nil
}

// SuggestedTags は参照ノート数の多い順に上位limit件を返します。
func (tu *TagUsecase) SuggestedTags(ctx context.Context, limit int) ([]entity.Tag, error) {
	if limit <= 0 {
		limit = DefaultSuggestedTagLimit
	}

	all, err := tu.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].NoteCount > all[j].NoteCount
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// AddTagToNote はタグをノートに付与します。既に付与済みの場合は何もしません。
func (tu *TagUsecase) AddTagToNote(ctx context.Context, noteID, tagName string) error {
	tag, err := tu.GetOrCreateTag(ctx, tagName)
	if err != nil {
		return err
	}
	note, err := tu.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	if note.HasTag(tag.Name) {
		return nil
	}
	return tu.notes.AppendTag(ctx, note, *tag)
}

// RemoveTagFromNote はノートからタグを外します。タグ自体は削除しません。
func (tu *TagUsecase) RemoveTagFromNote(ctx context.Context, noteID, tagName string) error {
	note, err := tu.notes.FindByID(ctx, noteID)
	if err != nil {
		return err
	}
	return tu.notes.RemoveTag(ctx, note, entity.NormalizeTagName(tagName))
}

// DeleteTag はタグを削除します。参照していたノートは参照を失うだけで残ります。
func (tu *TagUsecase) DeleteTag(ctx context.Context, name string) error {
	return tu.tags.Delete(ctx, entity.NormalizeTagName(name))
}
