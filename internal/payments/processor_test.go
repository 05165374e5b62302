package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedProcessorCharge(t *testing.T) {
	processor := NewSimulatedProcessor()

	result, err := processor.Charge(context.Background(), ChargeRequest{
		Amount:        49,
		Currency:      "USD",
		CustomerEmail: "a@b.com",
		CustomerName:  "Ann",
	})
	require.NoError(t, err)
	assert.Contains(t, result.PaymentID, "sim_")
	assert.Contains(t, result.SessionID, "session_")

	// Correlation ids are unique per charge.
	second, err := processor.Charge(context.Background(), ChargeRequest{Amount: 49, Currency: "USD"})
	require.NoError(t, err)
	assert.NotEqual(t, result.PaymentID, second.PaymentID)
}

func TestSimulatedProcessorRejectsBadAmount(t *testing.T) {
	processor := NewSimulatedProcessor()

	_, err := processor.Charge(context.Background(), ChargeRequest{Amount: 0, Currency: "USD"})
	assert.Error(t, err)

	_, err = processor.Charge(context.Background(), ChargeRequest{Amount: -5, Currency: "USD"})
	assert.Error(t, err)
}

func TestSimulatedProcessorHonorsContext(t *testing.T) {
	processor := NewSimulatedProcessor()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := processor.Charge(ctx, ChargeRequest{Amount: 49, Currency: "USD"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecliningProcessor(t *testing.T) {
	processor := &DecliningProcessor{}

	_, err := processor.Charge(context.Background(), ChargeRequest{Amount: 49, Currency: "USD"})
	assert.ErrorIs(t, err, ErrDeclined)
}
