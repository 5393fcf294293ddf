package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/errors"
	"github.com/leonfashion/fashionshop-backend/pkg/logger"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
	"github.com/leonfashion/fashionshop-backend/pkg/types"
	"gorm.io/gorm"
)

const (
	TypeCustomerRegistered = "customer.registered"
	TypeOrderPlaced        = "order.placed"
)

// Store persists notification records.
type Store interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, params pagination.Params) ([]models.Notification, int64, error)
}

type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Service interface {
	// Record persists the event and pushes it to the admin webhook in the
	// background. Webhook failures are logged, never surfaced.
	Record(ctx context.Context, eventType, title, message string, payload any) error
	List(ctx context.Context, params pagination.Params) (*types.Page[NotificationResponse], error)
	CustomerRegistered(ctx context.Context, email, fullName string)
}

type service struct {
	store   Store
	webhook WebhookPoster
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(store Store, webhook WebhookPoster, logg *logger.Logger) Service {
	return &service{store: store, webhook: webhook, logg: logg, now: time.Now}
}

func (s *service) Record(ctx context.Context, eventType, title, message string, payload any) error {
	if s == nil || s.store == nil {
		return errors.New(errors.CodeDependency, "notification store unavailable")
	}

	encoded := []byte("{}")
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "encoding notification payload")
		}
		encoded = raw
	}

	notification := &models.Notification{
		Type:    eventType,
		Title:   title,
		Message: message,
		Payload: string(encoded),
	}
	if err := s.store.Create(ctx, notification); err != nil {
		return errors.Wrap(errors.CodeInternal, err, "recording notification")
	}

	s.push(ctx, Event{
		Type:      eventType,
		Title:     title,
		Message:   message,
		Payload:   json.RawMessage(encoded),
		CreatedAt: s.now(),
	})
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*types.Page[NotificationResponse], error) {
	notifications, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "listing notifications")
	}

	data := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		data = append(data, NotificationResponse{
			ID:        notification.ID,
			Type:      notification.Type,
			Title:     notification.Title,
			Message:   notification.Message,
			Payload:   json.RawMessage(notification.Payload),
			CreatedAt: notification.CreatedAt,
		})
	}
	return &types.Page[NotificationResponse]{
		Page:       params.Page,
		Size:       params.Size,
		Total:      total,
		TotalPages: params.TotalPages(total),
		Last:       params.Last(total),
		Data:       data,
	}, nil
}

// CustomerRegistered records a signup event. Failures are logged and
// swallowed so registration never fails over notification plumbing.
func (s *service) CustomerRegistered(ctx context.Context, email, fullName string) {
	err := s.Record(ctx, TypeCustomerRegistered, "New customer registration",
		fullName+" just created an account", map[string]string{
			"email":     email,
			"full_name": fullName,
		})
	if err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "email", email), "recording registration notification failed")
	}
}

// push delivers the event to the webhook without blocking the caller. The
// goroutine gets its own timeout since the request context may end first.
func (s *service) push(ctx context.Context, event Event) {
	if s.webhook == nil {
		return
	}
	logCtx := ctx
	go func() {
		pushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.webhook.Post(pushCtx, event); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(logCtx, "event_type", event.Type), "webhook delivery failed")
		}
	}()
}

// Repository is the GORM-backed Store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Notification, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Size).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
