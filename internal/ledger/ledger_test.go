package ledger

import (
	"math"
	"testing"

	"TradePulse/internal/domain/models"
)

type stubPrices struct {
	m map[string]float64
}

func (s *stubPrices) Price(symbol string) (float64, bool) {
	p, ok := s.m[symbol]
	return p, ok
}

func (s *stubPrices) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.m))
	for k, v := range s.m {
		out[k] = v
	}
	return out
}

func (s *stubPrices) History(string, int) []float64 { return nil }

func (s *stubPrices) Symbols() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out
}

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func newTestLedger(prices map[string]float64) (*Ledger, *stubPrices) {
	sp := &stubPrices{m: prices}
	return New(DefaultConfig(), sp), sp
}

func checkEquityInvariant(t *testing.T, l *Ledger, userID string) {
	t.Helper()
	acc := l.GetAccount(userID)
	if !almostEqual(acc.Equity, acc.Balance+acc.TotalPnL(), 1e-6) {
		t.Errorf("equity invariant violated: equity=%v balance=%v pnl=%v",
			acc.Equity, acc.Balance, acc.TotalPnL())
	}
	if !almostEqual(acc.FreeMargin, acc.Equity-acc.Margin, 1e-6) {
		t.Errorf("free margin invariant violated: %+v", acc)
	}
}

func TestBuyOpensLongPosition(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})

	amount := 1000.0 / 50000
	order, err := l.PlaceMarketOrder("u1", "BTCUSDT", models.SideBuy, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.StatusFilled {
		t.Fatalf("expected filled, got %s", order.Status)
	}
	if order.FilledAmount != amount {
		t.Errorf("expected filled amount %v, got %v", amount, order.FilledAmount)
	}

	acc := l.GetAccount("u1")
	// $1000 notional plus 0.1% fee
	if !almostEqual(acc.Balance, 8999, 1e-6) {
		t.Errorf("expected balance 8999, got %v", acc.Balance)
	}
	if len(acc.Positions) != 1 {
		t.Fatalf("expected one open position, got %d", len(acc.Positions))
	}
	pos := acc.Positions[0]
	if pos.Side != models.PositionLong || !almostEqual(pos.Size, 0.02, 1e-9) {
		t.Errorf("expected long 0.02, got %s %v", pos.Side, pos.Size)
	}
	if pos.EntryPrice != 50000 {
		t.Errorf("expected entry 50000, got %v", pos.EntryPrice)
	}
	checkEquityInvariant(t, l, "u1")
}

func TestBuyInsufficientFundsRejected(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})

	// 0.21 * 50000 * 1.001 = 10510.5 > 10000
	order, err := l.PlaceMarketOrder("u1", "BTCUSDT", models.SideBuy, 0.21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.StatusRejected {
		t.Fatalf("expected rejected, got %s", order.Status)
	}
	if order.FilledAmount != 0 {
		t.Errorf("rejected order must not fill, got %v", order.FilledAmount)
	}

	acc := l.GetAccount("u1")
	if acc.Balance != 10000 {
		t.Errorf("rejected buy must not touch balance, got %v", acc.Balance)
	}
	if len(acc.Positions) != 0 || len(acc.Orders) != 0 {
		t.Errorf("rejected buy must not mutate account: %+v", acc)
	}
}

func TestSellCreditsBalanceOnly(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})

	order, err := l.PlaceMarketOrder("u1", "BTCUSDT", models.SideSell, 0.01)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != models.StatusFilled {
		t.Fatalf("expected filled, got %s", order.Status)
	}

	acc := l.GetAccount("u1")
	// 0.01*50000 = 500 minus 0.5 fee
	if !almostEqual(acc.Balance, 10499.5, 1e-6) {
		t.Errorf("expected balance 10499.5, got %v", acc.Balance)
	}
	if len(acc.Positions) != 0 {
		t.Errorf("sell must not open a position, got %d", len(acc.Positions))
	}
	checkEquityInvariant(t, l, "u1")
}

func TestClosePositionCreditsEntryPlusPnL(t *testing.T) {
	l, sp := newTestLedger(map[string]float64{"BTCUSDT": 50000})

	_, err := l.PlaceMarketOrder("u1", "BTCUSDT", models.SideBuy, 0.02)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	acc := l.GetAccount("u1")
	posID := acc.Positions[0].ID

	sp.m["BTCUSDT"] = 51000

	pos, pnl, err := l.ClosePosition("u1", posID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(pnl, 20, 1e-9) {
		t.Errorf("expected pnl 20, got %v", pnl)
	}
	if pos.ID != posID {
		t.Errorf("closed wrong position: %s", pos.ID)
	}

	acc = l.GetAccount("u1")
	if len(acc.Positions) != 0 {
		t.Fatalf("close must remove the position, got %d left", len(acc.Positions))
	}
	// 8999 after the buy, then entry value 1000 plus 20 pnl
	if !almostEqual(acc.Balance, 10019, 1e-6) {
		t.Errorf("expected balance 10019, got %v", acc.Balance)
	}
	checkEquityInvariant(t, l, "u1")
}

func TestClosePositionNotFound(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})
	before := l.GetAccount("u1")

	if _, _, err := l.ClosePosition("u1", "pos_missing"); err != ErrPositionNotFound {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}

	after := l.GetAccount("u1")
	if before.Balance != after.Balance || len(after.Positions) != 0 {
		t.Errorf("failed close must not mutate account")
	}
}

func TestEquityTracksMark(t *testing.T) {
	l, sp := newTestLedger(map[string]float64{"BTCUSDT": 50000, "ETHUSDT": 2500})

	mustFill := func(symbol string, side models.OrderSide, amount float64) {
		t.Helper()
		o, err := l.PlaceMarketOrder("u1", symbol, side, amount)
		if err != nil || o.Status != models.StatusFilled {
			t.Fatalf("order failed: %v %v", o, err)
		}
	}

	mustFill("BTCUSDT", models.SideBuy, 0.02)
	checkEquityInvariant(t, l, "u1")
	mustFill("ETHUSDT", models.SideBuy, 0.5)
	checkEquityInvariant(t, l, "u1")

	sp.m["BTCUSDT"] = 52000
	sp.m["ETHUSDT"] = 2400
	checkEquityInvariant(t, l, "u1")

	acc := l.GetAccount("u1")
	// btc up 2000*0.02=40, eth down 100*0.5=50
	if !almostEqual(acc.TotalPnL(), -10, 1e-6) {
		t.Errorf("expected total pnl -10, got %v", acc.TotalPnL())
	}

	mustFill("BTCUSDT", models.SideSell, 0.01)
	checkEquityInvariant(t, l, "u1")

	acc = l.GetAccount("u1")
	for _, pid := range []string{acc.Positions[0].ID, acc.Positions[1].ID} {
		if _, _, err := l.ClosePosition("u1", pid); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		checkEquityInvariant(t, l, "u1")
	}
}

func TestOrderHistoryBounded(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})
	for i := 0; i < 25; i++ {
		if _, err := l.PlaceMarketOrder("u1", "BTCUSDT", models.SideSell, 0.0001); err != nil {
			t.Fatalf("order failed: %v", err)
		}
	}
	acc := l.GetAccount("u1")
	if len(acc.Orders) != 20 {
		t.Errorf("expected history bounded to 20, got %d", len(acc.Orders))
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	l, _ := newTestLedger(map[string]float64{"BTCUSDT": 50000})
	if _, err := l.PlaceMarketOrder("alice", "BTCUSDT", models.SideBuy, 0.01); err != nil {
		t.Fatalf("order failed: %v", err)
	}
	bob := l.GetAccount("bob")
	if bob.Balance != 10000 || len(bob.Positions) != 0 {
		t.Errorf("accounts must be isolated, got %+v", bob)
	}
	if l.ActiveAccounts() != 2 {
		t.Errorf("expected 2 accounts, got %d", l.ActiveAccounts())
	}
}
