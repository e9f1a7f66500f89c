package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/GoTitans/titangate/internal/model"
	"github.com/google/uuid"
)

// SignalEngine is the trading/prediction collaborator. The real engine
// lives in its own service; the gateway only needs these two calls.
type SignalEngine interface {
	Predict(ctx context.Context, tenantID, symbol string) (*model.Signal, error)
	Execute(ctx context.Context, tenant *model.Tenant, sig *model.Signal, venue string) (*model.TradeResult, error)
}

// PaperEngine is a deterministic stand-in used when no engine endpoint is
// configured. Signals derive from a hash of symbol and hour so responses
// are stable within a window.
type PaperEngine struct{}

func NewPaperEngine() *PaperEngine {
	return &PaperEngine{}
}

func (e *PaperEngine) Predict(ctx context.Context, tenantID, symbol string) (*model.Signal, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	now := time.Now().UTC()
	h := fnv.New32a()
	h.Write([]byte(symbol))
	h.Write([]byte(now.Format("2006-01-02T15")))
	seed := h.Sum32()

	actions := []string{"BUY", "SELL", "HOLD"}
	return &model.Signal{
		Symbol:     symbol,
		Action:     actions[seed%3],
		Confidence: 0.50 + float64(seed%40)/100.0,
		Price:      1000 + float64(seed%100000)/10.0,
		Regime:     "paper",
		Timestamp:  now,
	}, nil
}

func (e *PaperEngine) Execute(ctx context.Context, tenant *model.Tenant, sig *model.Signal, venue string) (*model.TradeResult, error) {
	if sig.Action == "HOLD" {
		return nil, fmt.Errorf("nothing to execute for HOLD signal")
	}
	return &model.TradeResult{
		TradeID:  uuid.New().String(),
		Symbol:   sig.Symbol,
		Action:   sig.Action,
		Price:    sig.Price,
		Quantity: 1,
		Venue:    venue,
		Mode:     string(model.ModePaper),
	}, nil
}
