package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chidi150c/backtestcore/internal/broker"
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/replay"
	"github.com/chidi150c/backtestcore/internal/store"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

func TestHandleActionsFailBeforeBind(t *testing.T) {
	h := NewHandle("acct-1", "strat-1")
	assert.False(t, h.Bound())

	_, err := h.Buy("X", 100, 1)
	assert.ErrorIs(t, err, ErrNotBound)

	_, err = h.Sell("X", 100, 1)
	assert.ErrorIs(t, err, ErrNotBound)

	err = h.CancelOrder("cli-1")
	assert.ErrorIs(t, err, ErrNotBound)
}

func TestHandleBuySellDelegatesToBroker(t *testing.T) {
	b := broker.New(broker.Config{InitialCapital: 10_000, CommissionRate: 0.0001, CloseCommissionRate: 0.0001}, nil, nil)
	f := replay.New(store.New(""), timestamp.Timestamp(0))
	h := NewHandle("acct-1", "strat-1")
	h.Bind(b, f)

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 101})

	clientID, err := h.Buy("X", 101, 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, clientID)

	pos := b.GetPositions("X")
	assert.Len(t, pos, 1)
	assert.Equal(t, 1.0, pos[0].LongQty)

	clientID2, err := h.Sell("X", 99, 1)
	assert.NoError(t, err)

	assert.NoError(t, h.CancelOrder(clientID))
	assert.NoError(t, h.CancelOrder("unknown-client-id"))
	assert.NoError(t, h.CancelOrder(clientID2))
}

func TestReferenceStrategyStaysFlatWithoutEnoughHistory(t *testing.T) {
	b := broker.New(broker.Config{InitialCapital: 10_000}, nil, nil)
	f := replay.New(store.New(""), timestamp.Timestamp(0))
	h := NewHandle("acct-1", "strat-1")
	h.Bind(b, f)

	s := NewReferenceStrategy(DefaultReferenceConfig("X"), h)
	s.Initialize()

	for i := 0; i < 10; i++ {
		s.OnTick(model.Tick{Symbol: "X", LastPrice: 100 + float64(i), BidPrice1: 99, AskPrice1: 101})
	}

	assert.Empty(t, b.GetPositions("X"))
}
