package sliders

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"gorm.io/gorm"
)

var validAlignments = map[string]struct{}{
	"left":   {},
	"center": {},
	"right":  {},
}

// Store is the persistence surface the service needs.
type Store interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Slider, error)
	Create(ctx context.Context, slider *models.Slider) error
	Save(ctx context.Context, slider *models.Slider) error
	ListAll(ctx context.Context) ([]models.Slider, error)
	ListActive(ctx context.Context) ([]models.Slider, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateSliderRequest struct {
	ImageURL     string  `json:"image_url" validate:"required"`
	Title        string  `json:"title" validate:"required,max=200"`
	Subtitle     *string `json:"subtitle,omitempty"`
	ButtonText   *string `json:"button_text,omitempty"`
	ButtonLink   *string `json:"button_link,omitempty"`
	TextAlign    *string `json:"text_align,omitempty" validate:"omitempty,oneof=left center right"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type UpdateSliderRequest struct {
	ImageURL     *string `json:"image_url,omitempty"`
	Title        *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Subtitle     *string `json:"subtitle,omitempty"`
	ButtonText   *string `json:"button_text,omitempty"`
	ButtonLink   *string `json:"button_link,omitempty"`
	TextAlign    *string `json:"text_align,omitempty" validate:"omitempty,oneof=left center right"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type SliderResponse struct {
	ID           uuid.UUID `json:"id"`
	ImageURL     string    `json:"image_url"`
	Title        string    `json:"title"`
	Subtitle     *string   `json:"subtitle,omitempty"`
	ButtonText   *string   `json:"button_text,omitempty"`
	ButtonLink   *string   `json:"button_link,omitempty"`
	TextAlign    string    `json:"text_align"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, req CreateSliderRequest) (*SliderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*SliderResponse, error)
	ListAll(ctx context.Context) ([]SliderResponse, error)
	ListActive(ctx context.Context) ([]SliderResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateSliderRequest) (*SliderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) Service {
	return &service{store: store, logg: logg}
}

func (s *service) Create(ctx context.Context, req CreateSliderRequest) (*SliderResponse, error) {
	if s == nil || s.store == nil {
		return nil, errors.New(errors.CodeDependency, "slider store unavailable")
	}
	imageURL := strings.TrimSpace(req.ImageURL)
	title := strings.TrimSpace(req.Title)
	if imageURL == "" {
		return nil, errors.New(errors.CodeValidation, "image url is required")
	}
	if title == "" {
		return nil, errors.New(errors.CodeValidation, "title is required")
	}

	slider := &models.Slider{
		ImageURL:   imageURL,
		Title:      title,
		Subtitle:   req.Subtitle,
		ButtonText: req.ButtonText,
		ButtonLink: req.ButtonLink,
		TextAlign:  "left",
		IsActive:   true,
	}
	if req.TextAlign != nil {
		align, err := normalizeAlign(*req.TextAlign)
		if err != nil {
			return nil, err
		}
		slider.TextAlign = align
	}
	if req.DisplayOrder != nil {
		slider.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		slider.IsActive = *req.IsActive
	}

	if err := s.store.Create(ctx, slider); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "creating slider")
	}

	resp := toResponse(slider)
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SliderResponse, error) {
	slider, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(slider)
	return &resp, nil
}

func (s *service) ListAll(ctx context.Context) ([]SliderResponse, error) {
	sliders, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing sliders")
	}
	return toResponses(sliders), nil
}

func (s *service) ListActive(ctx context.Context) ([]SliderResponse, error) {
	sliders, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing active sliders")
	}
	return toResponses(sliders), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateSliderRequest) (*SliderResponse, error) {
	slider, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ImageURL != nil {
		imageURL := strings.TrimSpace(*req.ImageURL)
		if imageURL == "" {
			return nil, errors.New(errors.CodeValidation, "image url cannot be blank")
		}
		slider.ImageURL = imageURL
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.New(errors.CodeValidation, "title cannot be blank")
		}
		slider.Title = title
	}
	if req.Subtitle != nil {
		slider.Subtitle = req.Subtitle
	}
	if req.ButtonText != nil {
		slider.ButtonText = req.ButtonText
	}
	if req.ButtonLink != nil {
		slider.ButtonLink = req.ButtonLink
	}
	if req.TextAlign != nil {
		align, err := normalizeAlign(*req.TextAlign)
		if err != nil {
			return nil, err
		}
		slider.TextAlign = align
	}
	if req.DisplayOrder != nil {
		slider.DisplayOrder = *req.DisplayOrder
	}
	if req.IsActive != nil {
		slider.IsActive = *req.IsActive
	}

	if err := s.store.Save(ctx, slider); err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "updating slider")
	}

	resp := toResponse(slider)
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	slider, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, slider.ID); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "deleting slider")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Slider, error) {
	slider, err := s.store.FindByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "slider not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "loading slider")
	}
	return slider, nil
}

func normalizeAlign(raw string) (string, error) {
	align := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := validAlignments[align]; !ok {
		return "", errors.New(errors.CodeValidation, "text align must be left, center or right")
	}
	return align, nil
}

func toResponse(slider *models.Slider) SliderResponse {
	return SliderResponse{
		ID:           slider.ID,
		ImageURL:     slider.ImageURL,
		Title:        slider.Title,
		Subtitle:     slider.Subtitle,
		ButtonText:   slider.ButtonText,
		ButtonLink:   slider.ButtonLink,
		TextAlign:    slider.TextAlign,
		IsActive:     slider.IsActive,
		DisplayOrder: slider.DisplayOrder,
		CreatedAt:    slider.CreatedAt,
		UpdatedAt:    slider.UpdatedAt,
	}
}

func toResponses(sliders []models.Slider) []SliderResponse {
	out := make([]SliderResponse, 0, len(sliders))
	for i := range sliders {
		out = append(out, toResponse(&sliders[i]))
	}
	return out
}
