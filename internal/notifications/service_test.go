package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/leonfashion/fashionshop-backend/pkg/config"
	"github.com/leonfashion/fashionshop-backend/pkg/db/models"
	"github.com/leonfashion/fashionshop-backend/pkg/pagination"
)

type fakeStore struct {
	mu      sync.Mutex
	records []*models.Notification
	err     error
}

func (f *fakeStore) Create(_ context.Context, notification *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, notification)
	return nil
}

func (f *fakeStore) List(_ context.Context, _ pagination.Params) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Notification, 0, len(f.records))
	for _, record := range f.records {
		out = append(out, *record)
	}
	return out, int64(len(out)), nil
}

type blockingPoster struct {
	events chan Event
	err    error
}

func (b *blockingPoster) Post(_ context.Context, event Event) error {
	b.events <- event
	return b.err
}

func TestRecordPersistsAndPushes(t *testing.T) {
	store := &fakeStore{}
	poster := &blockingPoster{events: make(chan Event, 1)}
	svc := NewService(store, poster, nil)

	err := svc.Record(context.Background(), TypeCustomerRegistered, "title", "message", map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(store.records) != 1 {
		t.Fatalf("persisted %d records", len(store.records))
	}
	if store.records[0].Type != TypeCustomerRegistered {
		t.Errorf("type = %q", store.records[0].Type)
	}

	select {
	case event := <-poster.events:
		if event.Type != TypeCustomerRegistered {
			t.Errorf("pushed type = %q", event.Type)
		}
		var payload map[string]string
		if err := json.Unmarshal(event.Payload, &payload); err != nil || payload["k"] != "v" {
			t.Errorf("payload = %s", event.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook push never happened")
	}
}

func TestRecordSurvivesWebhookFailure(t *testing.T) {
	store := &fakeStore{}
	poster := &blockingPoster{events: make(chan Event, 1), err: fmt.Errorf("endpoint down")}
	svc := NewService(store, poster, nil)

	if err := svc.Record(context.Background(), TypeOrderPlaced, "t", "m", nil); err != nil {
		t.Fatalf("Record must not surface webhook errors: %v", err)
	}
	<-poster.events
}

func TestCustomerRegisteredSwallowsStoreError(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("db down")}
	svc := NewService(store, nil, nil)
	// Must not panic or propagate.
	svc.CustomerRegistered(context.Background(), "x@shop.vn", "X")
}

func TestHTTPWebhookPoster(t *testing.T) {
	received := make(chan Event, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decoding event: %v", err)
		}
		received <- event
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	poster := NewHTTPWebhookPoster(config.WebhookConfig{AdminURL: server.URL, Timeout: 2 * time.Second})
	err := poster.Post(context.Background(), Event{Type: "test.event", Title: "t", Message: "m"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	event := <-received
	if event.Type != "test.event" {
		t.Errorf("delivered type = %q", event.Type)
	}
}

func TestHTTPWebhookPosterNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	poster := NewHTTPWebhookPoster(config.WebhookConfig{AdminURL: server.URL})
	if err := poster.Post(context.Background(), Event{Type: "x"}); err == nil {
		t.Fatal("expected error on 502 response")
	}
}

func TestHTTPWebhookPosterNoURLIsNoop(t *testing.T) {
	poster := NewHTTPWebhookPoster(config.WebhookConfig{})
	if err := poster.Post(context.Background(), Event{Type: "x"}); err != nil {
		t.Fatalf("unconfigured poster must be a noop: %v", err)
	}
}
