package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adyela/payments/internal/notification"
	"github.com/google/uuid"
)

// MemoryRepository keeps notifications in process memory.
type MemoryRepository struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*notification.Notification
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notifications: make(map[uuid.UUID]*notification.Notification)}
}

func (r *MemoryRepository) Create(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notifications[n.ID]; exists {
		return fmt.Errorf("notification %s already exists", n.ID)
	}
	r.notifications[n.ID] = clone(n)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	return clone(n), nil
}

func (r *MemoryRepository) FindByRecipient(_ context.Context, recipient string, limit int) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*notification.Notification
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			out = append(out, clone(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) Update(_ context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.notifications[n.ID]
	if !ok {
		return notification.ErrNotFound
	}
	updated := clone(n)
	updated.CreatedAt = existing.CreatedAt
	r.notifications[n.ID] = updated
	return nil
}

func clone(n *notification.Notification) *notification.Notification {
	c := *n
	if n.Metadata != nil {
		c.Metadata = make(map[string]string, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	if n.Data != nil {
		c.Data = make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			c.Data[k] = v
		}
	}
	return &c
}
