package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newNotification(recipient string, createdAt time.Time) *notification.Notification {
	return &notification.Notification{
		ID:        uuid.New(),
		Type:      notification.TypeEmail,
		Template:  notification.TemplatePaymentReceived,
		Recipient: recipient,
		Body:      notification.TemplatePaymentReceived.Render(map[string]any{"amount": "$150.00"}),
		Data:      map[string]any{"amount": "$150.00"},
		Status:    notification.StatusPending,
		Metadata:  map[string]string{"appointmentId": "appt-1"},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// repositoryContract runs the same behaviour checks against every store.
func repositoryContract(t *testing.T, repo notification.Repository) {
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	recipient := fmt.Sprintf("patient-%s@example.com", uuid.NewString()[:8])

	t.Run("create and find", func(t *testing.T) {
		n := newNotification(recipient, base)
		require.NoError(t, repo.Create(ctx, n))

		found, err := repo.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, n.Body, found.Body)
		assert.Equal(t, "appt-1", found.Metadata["appointmentId"])
		assert.Equal(t, notification.StatusPending, found.Status)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})

	t.Run("update status", func(t *testing.T) {
		n := newNotification(recipient, base.Add(time.Minute))
		require.NoError(t, repo.Create(ctx, n))

		n.MarkFailed("smtp: connection refused", base.Add(2*time.Minute))
		require.NoError(t, repo.Update(ctx, n))

		found, err := repo.FindByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, notification.StatusFailed, found.Status)
		assert.Equal(t, "smtp: connection refused", found.FailureReason)
		assert.True(t, found.CreatedAt.Equal(n.CreatedAt))
	})

	t.Run("update unknown", func(t *testing.T) {
		err := repo.Update(ctx, newNotification(recipient, base))
		assert.ErrorIs(t, err, notification.ErrNotFound)
	})

	t.Run("by recipient newest first with limit", func(t *testing.T) {
		other := "other-" + recipient
		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			n := newNotification(other, base.Add(time.Duration(i)*time.Hour))
			require.NoError(t, repo.Create(ctx, n))
			ids = append(ids, n.ID)
		}

		list, err := repo.FindByRecipient(ctx, other, 2)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, ids[2], list[0].ID)
		assert.Equal(t, ids[1], list[1].ID)
	})
}

func TestMemoryRepository(t *testing.T) {
	repositoryContract(t, NewMemoryRepository())
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	n := newNotification("a@example.com", time.Now())
	require.NoError(t, repo.Create(ctx, n))

	found, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	found.Metadata["appointmentId"] = "tampered"

	again, err := repo.FindByID(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "appt-1", again.Metadata["appointmentId"])
}

func TestGormRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "testuser",
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_DB":       "notifications",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := Open(&config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "notifications",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	repo := NewGormRepository(db)
	require.NoError(t, repo.AutoMigrate(ctx))

	repositoryContract(t, repo)
}
