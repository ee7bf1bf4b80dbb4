package service

import (
	"context"
	"errors"
	"testing"

	"github.com/adyela/payments/internal/core/domain"
	"github.com/adyela/payments/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWebhookService_HandleDelivery(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	t.Run("missing signature never reaches the gateway", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		gateway := mocks.NewMockGatewayPort(t)
		svc := NewWebhookService(gateway, NewLifecycleService(repo, gateway, discardLogger()), discardLogger())

		_, err := svc.HandleDelivery(context.Background(), payload, "")
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingSignature))
		assert.Equal(t, 0, repo.TotalCalls())
	})

	t.Run("invalid signature short-circuits before the store", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		gateway := mocks.NewMockGatewayPort(t)
		svc := NewWebhookService(gateway, NewLifecycleService(repo, gateway, discardLogger()), discardLogger())

		gateway.EXPECT().VerifyAndParseWebhook(payload, "t=1,v1=bad").
			Return(nil, domain.NewInvalidSignatureError(errors.New("no valid signature"))).
			Once()

		_, err := svc.HandleDelivery(context.Background(), payload, "t=1,v1=bad")
		assert.True(t, domain.IsInvalidSignature(err))
		assert.Equal(t, 0, repo.TotalCalls())
	})

	t.Run("verified event is reconciled", func(t *testing.T) {
		repo := NewMockPaymentRepository()
		gateway := mocks.NewMockGatewayPort(t)
		svc := NewWebhookService(gateway, NewLifecycleService(repo, gateway, discardLogger()), discardLogger())
		p := repo.seed(domain.StatusPending, "pi_hook")

		gateway.EXPECT().VerifyAndParseWebhook(mock.Anything, "sig").
			Return(&domain.GatewayEvent{ID: "evt_1", Category: domain.EventIntentPaymentFailed, IntentID: "pi_hook"}, nil).
			Once()

		event, err := svc.HandleDelivery(context.Background(), payload, "sig")
		require.NoError(t, err)
		assert.Equal(t, "evt_1", event.ID)
		assert.Equal(t, domain.StatusFailed, repo.stored(p.ID).Status)
	})
}
