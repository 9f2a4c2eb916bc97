package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

const testConsumer = "contract-notifications"

type fakeStore struct {
	setNXResult bool
	setNXError  error
	lastKey     string
	lastTTL     time.Duration
	lastDeleted string
}

func (f *fakeStore) Get(context.Context, string) (string, error) {
	return "", nil
}

func (f *fakeStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	f.lastKey = key
	f.lastTTL = ttl
	return f.setNXResult, f.setNXError
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return "bq:idempotency:" + scope + ":" + id
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	if len(keys) > 0 {
		f.lastDeleted = keys[0]
	}
	return nil
}

func TestCheckAndMarkProcessed(t *testing.T) {
	eventID := uuid.New()
	wantKey := "bq:idempotency:evt:processed:" + testConsumer + ":" + eventID.String()

	tests := []struct {
		name        string
		store       *fakeStore
		ttl         time.Duration
		wantAlready bool
		wantErr     bool
	}{
		{name: "first delivery marks and passes", store: &fakeStore{setNXResult: true}, ttl: 24 * time.Hour},
		{name: "redelivery short-circuits", store: &fakeStore{setNXResult: false}, ttl: 12 * time.Hour, wantAlready: true},
		{name: "store failure surfaces", store: &fakeStore{setNXError: errors.New("boom")}, ttl: time.Hour, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager, err := NewManager(tt.store, tt.ttl)
			if err != nil {
				t.Fatalf("NewManager: %v", err)
			}

			already, err := manager.CheckAndMarkProcessed(context.Background(), testConsumer, eventID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("CheckAndMarkProcessed: %v", err)
			}
			if already != tt.wantAlready {
				t.Fatalf("already = %v, want %v", already, tt.wantAlready)
			}
			if tt.store.lastKey != wantKey {
				t.Fatalf("unexpected key %q", tt.store.lastKey)
			}
			if tt.store.lastTTL != tt.ttl {
				t.Fatalf("unexpected ttl %v", tt.store.lastTTL)
			}
		})
	}
}

func TestCheckAndMarkProcessedRejectsBadInputs(t *testing.T) {
	manager, err := NewManager(&fakeStore{setNXResult: true}, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := manager.CheckAndMarkProcessed(context.Background(), "", uuid.New()); err == nil {
		t.Fatal("expected error for blank consumer")
	}
	if _, err := manager.CheckAndMarkProcessed(context.Background(), testConsumer, uuid.Nil); err == nil {
		t.Fatal("expected error for nil event id")
	}
}

func TestDeleteUnmarksProcessedEvent(t *testing.T) {
	store := &fakeStore{}
	manager, err := NewManager(store, time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	eventID := uuid.New()
	if err := manager.Delete(context.Background(), testConsumer, eventID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	want := "bq:idempotency:evt:processed:" + testConsumer + ":" + eventID.String()
	if store.lastDeleted != want {
		t.Fatalf("unexpected deleted key %q", store.lastDeleted)
	}
}
