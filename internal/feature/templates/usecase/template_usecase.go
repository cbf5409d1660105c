// Package usecase はテンプレートデータ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stocknotes/internal/feature/templates/domain/entity"
)

var (
	// ErrTemplateDataNotFound is returned when template data cannot be found.
	ErrTemplateDataNotFound = errors.New("template data not found")

	// ErrUnknownTemplateType is returned for a template type outside the fixed set.
	ErrUnknownTemplateType = errors.New("unknown template type")
)

// TemplateRepository はテンプレートデータの永続化レイヤーを抽象化します。
type TemplateRepository interface {
	Create(ctx context.Context, data *entity.TemplateData) error
	FindByID(ctx context.Context, id string) (*entity.TemplateData, error)
	FindByNoteID(ctx context.Context, noteID string) (*entity.TemplateData, error)
	Delete(ctx context.Context, id string) error
}

// TemplateUsecase はテンプレートデータ操作のユースケースを定義します。
type TemplateUsecase struct {
	templates TemplateRepository
}

// NewTemplateUsecase はTemplateUsecaseの新しいインスタンスを生成します。
func NewTemplateUsecase(templates TemplateRepository) *TemplateUsecase {
	return &TemplateUsecase{templates: templates}
}

// AvailableTemplates は利用可能なテンプレート型の一覧を返します。
func (tu *TemplateUsecase) AvailableTemplates() []entity.TemplateType {
	return entity.AllTemplateTypes
}

// FieldsFor はテンプレート型のフィールドスキーマを返します。
func (tu *TemplateUsecase) FieldsFor(t entity.TemplateType) ([]entity.TemplateField, error) {
	if !t.Valid() {
		return nil, ErrUnknownTemplateType
	}
	return t.Fields(), nil
}

// CreateTemplateData は型付きのフィールド値からテンプレートデータを作成して
// 永続化します。値はスキーマに対して検証済みの形でエンコードされます。
func (tu *TemplateUsecase) CreateTemplateData(ctx context.Context, noteID *string, values entity.TemplateValues) (*entity.TemplateData, error) {
	encoded, err := entity.EncodeValues(values)
	if err != nil {
		return nil, err
	}

	data := &entity.TemplateData{
		ID:           uuid.NewString(),
		TemplateType: values.Type(),
		FieldData:    encoded,
		NoteID:       noteID,
		CreatedDate:  time.Now(),
	}
	if err := tu.templates.Create(ctx, data); err != nil {
		return nil, fmt.Errorf("create template data: %w", err)
	}
	return data, nil
}

// DecodeTemplateData はテンプレートデータの値を型付きで復元します。
func (tu *TemplateUsecase) DecodeTemplateData(data *entity.TemplateData) (entity.TemplateValues, error) {
	return entity.DecodeValues(data.TemplateType, data.FieldData)
}

// GetTemplateData はIDでテンプレートデータを取得します。
func (tu *TemplateUsecase) GetTemplateData(ctx context.Context, id string) (*entity.TemplateData, error) {
	return tu.templates.FindByID(ctx, id)
}

// TemplateDataForNote はノートに紐づくテンプレートデータを取得します。
func (tu *TemplateUsecase) TemplateDataForNote(ctx context.Context, noteID string) (*entity.TemplateData, error) {
	return tu.templates.FindByNoteID(ctx, noteID)
}

// DeleteTemplateData はテンプレートデータを削除します。ノートへの影響はありません。
func (tu *TemplateUsecase) DeleteTemplateData(ctx context.Context, id string) error {
	return tu.templates.Delete(ctx, id)
}
