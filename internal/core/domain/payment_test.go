package domain_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayment(t *testing.T) *domain.Payment {
	t.Helper()
	p, err := domain.NewPayment(
		uuid.New(),
		uuid.NewString(),
		uuid.NewString(),
		uuid.NewString(),
		decimal.RequireFromString("49.99"),
		domain.CurrencyUSD,
		map[string]string{"source": "web"},
		time.Now(),
	)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("creates pending payment", func(t *testing.T) {
		p := newTestPayment(t)

		assert.Equal(t, domain.StatusPending, p.Status)
		assert.Nil(t, p.GatewayIntentID)
		assert.Equal(t, p.CreatedAt, p.UpdatedAt)
		assert.Equal(t, "web", p.Metadata["source"])
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		for _, amount := range []string{"0", "-10", "0.00"} {
			_, err := domain.NewPayment(uuid.New(), "a", "p", "pr", decimal.RequireFromString(amount), domain.CurrencyUSD, nil, time.Now())
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount), "amount %s", amount)
		}
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		_, err := domain.NewPayment(uuid.New(), "a", "p", "pr", decimal.NewFromInt(10), domain.Currency("gbp"), nil, time.Now())
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidCurrency))
	})

	t.Run("rejects missing appointment", func(t *testing.T) {
		_, err := domain.NewPayment(uuid.New(), " ", "p", "pr", decimal.NewFromInt(10), domain.CurrencyEUR, nil, time.Now())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appointmentId is required")
	})

	t.Run("copies caller metadata", func(t *testing.T) {
		meta := map[string]string{"k": "v"}
		p, err := domain.NewPayment(uuid.New(), "a", "p", "pr", decimal.NewFromInt(10), domain.CurrencyEUR, meta, time.Now())
		require.NoError(t, err)

		meta["k"] = "changed"
		assert.Equal(t, "v", p.Metadata["k"])
	})
}

func TestPayment_AssignIntent(t *testing.T) {
	p := newTestPayment(t)

	require.NoError(t, p.AssignIntent("pi_123", "pi_123_secret"))
	assert.Equal(t, "pi_123", *p.GatewayIntentID)
	assert.Equal(t, "pi_123_secret", *p.GatewayClientSecret)

	require.NoError(t, p.AssignIntent("pi_123", "pi_123_secret"))

	err := p.AssignIntent("pi_other", "secret")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeIntentAlreadyAssigned))
	assert.Equal(t, "pi_123", *p.GatewayIntentID)
}

func TestPayment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from domain.PaymentStatus
		to   domain.PaymentStatus
		want bool
	}{
		{domain.StatusPending, domain.StatusSucceeded, true},
		{domain.StatusPending, domain.StatusProcessing, true},
		{domain.StatusPending, domain.StatusRefunded, false},
		{domain.StatusProcessing, domain.StatusCancelled, true},
		{domain.StatusSucceeded, domain.StatusRefunded, true},
		{domain.StatusSucceeded, domain.StatusFailed, false},
		{domain.StatusFailed, domain.StatusSucceeded, false},
		{domain.StatusRefunded, domain.StatusRefunded, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			p := &domain.Payment{Status: tt.from}
			assert.Equal(t, tt.want, p.CanTransitionTo(tt.to))
		})
	}
}

func TestPayment_Touch(t *testing.T) {
	p := newTestPayment(t)

	p.Touch(p.CreatedAt.Add(-time.Hour))
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	later := p.CreatedAt.Add(time.Minute)
	p.Touch(later)
	assert.Equal(t, later, p.UpdatedAt)
}

func TestPayment_Clone(t *testing.T) {
	p := newTestPayment(t)
	require.NoError(t, p.AssignIntent("pi_1", "secret_1"))

	c := p.Clone()
	c.Metadata["source"] = "mobile"
	*c.GatewayIntentID = "pi_2"

	assert.Equal(t, "web", p.Metadata["source"])
	assert.Equal(t, "pi_1", *p.GatewayIntentID)
}

func TestParseCurrency(t *testing.T) {
	c, err := domain.ParseCurrency("USD")
	require.NoError(t, err)
	assert.Equal(t, domain.CurrencyUSD, c)

	_, err = domain.ParseCurrency("btc")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidCurrency))
}

func TestMinorUnits(t *testing.T) {
	tests := map[string]int64{
		"49.99":   4999,
		"100.50":  10050,
		"150.755": 15076,
		"150.00":  15000,
		"0.01":    1,
		"10":      1000,
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.MinorUnits(decimal.RequireFromString(in)), in)
	}

	assert.True(t, decimal.RequireFromString("49.99").Equal(domain.FromMinorUnits(4999)))
}

func TestParseEventCategory(t *testing.T) {
	status, ok := domain.ParseEventCategory("charge.refunded").TargetStatus()
	assert.True(t, ok)
	assert.Equal(t, domain.StatusRefunded, status)

	c := domain.ParseEventCategory("customer.created")
	assert.Equal(t, domain.EventUnknown, c)
	_, ok = c.TargetStatus()
	assert.False(t, ok)
}

func TestInvalidSignatureError_IsGatewayError(t *testing.T) {
	err := fmt.Errorf("webhook: %w", domain.NewInvalidSignatureError(errors.New("no valid signature")))

	gwErr, ok := domain.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_signature", gwErr.Code)
	assert.True(t, domain.IsInvalidSignature(err))

	_, ok = domain.IsGatewayError(domain.NewPaymentNotFoundError("x"))
	assert.False(t, ok)
}
