// Package payments defines the boundary to the external payment processor.
// Endpoint logic only depends on the Processor interface, so tests (and the
// current simulated gateway) can stand in for the real one.
package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDeclined is returned when the processor refuses the charge. It is a
// user-retryable failure, distinct from transport or processor errors.
var ErrDeclined = errors.New("payment declined")

// ChargeRequest carries everything the processor needs to take a payment.
type ChargeRequest struct {
	Amount        float64
	Currency      string
	CustomerEmail string
	CustomerName  string
	CustomerType  string
}

// ChargeResult holds the processor's correlation ids for a successful charge.
type ChargeResult struct {
	PaymentID string
	SessionID string
}

type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// SimulatedProcessor approves every well-formed charge. It stands in until
// the Stripe integration lands.
type SimulatedProcessor struct{}

func NewSimulatedProcessor() *SimulatedProcessor {
	return &SimulatedProcessor{}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return ChargeResult{}, err
	}
	if req.Amount <= 0 {
		return ChargeResult{}, fmt.Errorf("invalid charge amount %.2f", req.Amount)
	}

	return ChargeResult{
		PaymentID: "sim_" + uuid.NewString(),
		SessionID: "session_" + uuid.NewString(),
	}, nil
}

// DecliningProcessor refuses every charge. Used in tests to exercise the
// decline path.
type DecliningProcessor struct{}

func (p *DecliningProcessor) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	return ChargeResult{}, ErrDeclined
}
