package firestore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMapping_KeepsAmountExact(t *testing.T) {
	p, err := domain.NewPayment(uuid.New(), "appt", "patient", "pro", decimal.RequireFromString("150.755"), domain.CurrencyEUR, nil, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, p.AssignIntent("pi_doc", "secret"))

	doc := toDocument(p)
	assert.Equal(t, "150.755", doc.Amount)
	assert.NotNil(t, doc.Metadata)

	back, err := fromDocument(doc)
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(back.Amount))
	assert.Equal(t, "pi_doc", *back.GatewayIntentID)
}

func TestFromDocument_RejectsCorruptAmount(t *testing.T) {
	_, err := fromDocument(paymentDocument{ID: uuid.NewString(), Amount: "abc"})
	assert.Error(t, err)
}

// Runs against the Firestore emulator when FIRESTORE_EMULATOR_HOST is set.
func TestPaymentRepository_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, config.FirestoreConfig{ProjectID: "adyela-test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	repo := NewPaymentRepository(client, "payments_"+uuid.NewString()[:8])

	p, err := domain.NewPayment(uuid.New(), uuid.NewString(), "patient", "pro", decimal.NewFromInt(30), domain.CurrencyUSD, nil, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, p.AssignIntent("pi_emu", "secret"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByGatewayIntentID(ctx, "pi_emu")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	got.Status = domain.StatusSucceeded
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, again.Status)

	_, err = repo.FindByGatewayIntentID(ctx, "pi_nobody")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodePaymentNotFound))
}
