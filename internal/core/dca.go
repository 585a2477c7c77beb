package core

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// Position is the average-cost state for one asset: total invested and
// units held. Selling removes units at their average acquisition cost,
// not at the sale price, so the remaining average is unchanged by a sale.
// Realized gains are not tracked; only unrealized P/L on what remains.
type Position struct {
	Name      string
	Invested  float64
	Units     float64
	LastPrice float64
}

// Buy adds qty units bought for amount. Stored buy amounts are negative
// cash flow, so the magnitude is what was invested.
func (p *Position) Buy(qty, amount float64) {
	p.Invested += math.Abs(amount)
	p.Units += qty
}

// Sell removes qty units at the current average cost.
func (p *Position) Sell(qty float64) {
	p.Invested -= qty * p.AvgCost()
	p.Units -= qty
}

// AvgCost is invested divided by units, zero when no units are held.
func (p *Position) AvgCost() float64 {
	if p.Units <= 0 {
		return 0
	}
	return p.Invested / p.Units
}

// CurrentValue marks the held units at the last seen transaction price.
func (p *Position) CurrentValue() float64 {
	return p.Units * p.LastPrice
}

// UnrealizedPL is current value minus invested.
func (p *Position) UnrealizedPL() float64 {
	return p.CurrentValue() - p.Invested
}

// UnrealizedPLPct is the unrealized P/L as a percentage of invested,
// zero when nothing is invested.
func (p *Position) UnrealizedPLPct() float64 {
	if p.Invested <= 0 {
		return 0
	}
	return p.UnrealizedPL() / p.Invested * 100
}

// DCAMetrics is the blended position over the whole transaction stream.
type DCAMetrics struct {
	TotalInvested   float64 `json:"total_invested"`
	TotalUnits      float64 `json:"total_units"`
	AvgCost         float64 `json:"avg_cost"`
	LastPrice       float64 `json:"last_price"`
	CurrentValue    float64 `json:"current_value"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
}

// DCAHolding is one asset's folded position for the breakdown table.
type DCAHolding struct {
	Name            string  `json:"name"`
	Invested        float64 `json:"invested"`
	Units           float64 `json:"units"`
	AvgPrice        float64 `json:"avg_price"`
	LastPrice       float64 `json:"last_price"`
	CurrentValue    float64 `json:"current_value"`
	UnrealizedPL    float64 `json:"unrealized_pl"`
	UnrealizedPLPct float64 `json:"unrealized_pl_pct"`
}

// CostMarketSeries tracks cumulative cost against market value at each
// transaction point. Value marks all units held after the transaction at
// that transaction's own price, a known approximation rather than a true
// mark-to-market series.
type CostMarketSeries struct {
	Labels []string  `json:"labels"`
	Cost   []float64 `json:"cost"`
	Value  []float64 `json:"value"`
}

// MonthlyBuySeries is the net buy flow per month for one calendar year.
type MonthlyBuySeries struct {
	Labels  []string  `json:"labels"`
	Amounts []float64 `json:"amounts"`
}

// DCASnapshot is everything the averaging dashboard renders.
type DCASnapshot struct {
	Metrics      DCAMetrics       `json:"metrics"`
	Breakdown    []DCAHolding     `json:"breakdown"`
	Assets       []string         `json:"assets"`
	CostVsMarket CostMarketSeries `json:"cost_vs_market_data"`
	MonthlyBuys  MonthlyBuySeries `json:"monthly_buy_data"`
}

// EmptyDCASnapshot returns a structurally complete zero-valued snapshot:
// empty collections rather than nil, twelve pre-populated months.
func EmptyDCASnapshot() DCASnapshot {
	return DCASnapshot{
		Breakdown:    []DCAHolding{},
		Assets:       []string{},
		CostVsMarket: CostMarketSeries{Labels: []string{}, Cost: []float64{}, Value: []float64{}},
		MonthlyBuys:  MonthlyBuySeries{Labels: slices.Clone(MonthsShort), Amounts: make([]float64, 12)},
	}
}

// BuildDCASnapshot folds Buy and Sell transactions into average-cost
// positions. Ascending date order is a correctness precondition of the
// fold, so the engine sorts before folding instead of trusting callers.
// A transaction whose quantity, price, or date does not parse is skipped
// entirely and returned so the caller can report it. assetNames is the
// filter universe shown in the dropdown, assetFilter narrows the fold to
// one asset, and buyYear selects the calendar year of the monthly series.
//
// Example:
//
//	snap, skipped := core.BuildDCASnapshot(txs, names, "", time.Now().Year())
//	fmt.Printf("avg cost %.2f over %d holdings (%d rows skipped)\n",
//		snap.Metrics.AvgCost, len(snap.Breakdown), len(skipped))
func BuildDCASnapshot(txs []Transaction, assetNames []string, assetFilter string, buyYear int) (DCASnapshot, []Transaction) {
	snap := EmptyDCASnapshot()
	snap.Assets = append(snap.Assets, assetNames...)

	type fold struct {
		tx     Transaction
		qty    float64
		price  float64
		amount float64
		sell   bool
	}
	var (
		stream  []fold
		skipped []Transaction
	)
	for _, t := range txs {
		isSell := strings.EqualFold(t.Action, ActionSell)
		if !isSell && !strings.EqualFold(t.Action, ActionBuy) {
			continue
		}
		if assetFilter != "" && t.Name != assetFilter {
			continue
		}
		qty, qtyOK := parseNumber(t.Qty)
		price, priceOK := parseNumber(t.Price)
		if !qtyOK || !priceOK || t.when.IsZero() {
			skipped = append(skipped, t)
			continue
		}
		stream = append(stream, fold{tx: t, qty: qty, price: price, amount: t.Amount, sell: isSell})
	}
	slices.SortStableFunc(stream, func(a, b fold) int {
		return a.tx.when.Compare(b.tx.when)
	})

	var (
		blend   Position
		byAsset = make(map[string]*Position)
		order   []string
	)
	for _, f := range stream {
		name := f.tx.Name
		if name == "" {
			name = "Unknown"
		}
		pos, ok := byAsset[name]
		if !ok {
			pos = &Position{Name: name}
			byAsset[name] = pos
			order = append(order, name)
		}
		if f.sell {
			blend.Sell(f.qty)
			pos.Sell(f.qty)
			snap.MonthlyBuys.Amounts = addYearFlow(snap.MonthlyBuys.Amounts, f.tx.when, buyYear, -math.Abs(f.amount))
		} else {
			blend.Buy(f.qty, f.amount)
			pos.Buy(f.qty, f.amount)
			snap.MonthlyBuys.Amounts = addYearFlow(snap.MonthlyBuys.Amounts, f.tx.when, buyYear, math.Abs(f.amount))
		}
		blend.LastPrice = f.price
		pos.LastPrice = f.price

		snap.CostVsMarket.Labels = append(snap.CostVsMarket.Labels, FormatDate(f.tx.when))
		snap.CostVsMarket.Cost = append(snap.CostVsMarket.Cost, blend.Invested)
		snap.CostVsMarket.Value = append(snap.CostVsMarket.Value, blend.Units*f.price)
	}

	snap.Metrics = DCAMetrics{
		TotalInvested:   blend.Invested,
		TotalUnits:      blend.Units,
		AvgCost:         blend.AvgCost(),
		LastPrice:       blend.LastPrice,
		CurrentValue:    blend.CurrentValue(),
		UnrealizedPL:    blend.UnrealizedPL(),
		UnrealizedPLPct: blend.UnrealizedPLPct(),
	}
	for _, name := range order {
		pos := byAsset[name]
		snap.Breakdown = append(snap.Breakdown, DCAHolding{
			Name:            pos.Name,
			Invested:        pos.Invested,
			Units:           pos.Units,
			AvgPrice:        pos.AvgCost(),
			LastPrice:       pos.LastPrice,
			CurrentValue:    pos.CurrentValue(),
			UnrealizedPL:    pos.UnrealizedPL(),
			UnrealizedPLPct: pos.UnrealizedPLPct(),
		})
	}
	slices.SortStableFunc(snap.Breakdown, func(a, b DCAHolding) int {
		return cmp.Compare(b.Invested, a.Invested)
	})
	return snap, skipped
}

func addYearFlow(amounts []float64, when time.Time, year int, v float64) []float64 {
	if when.Year() == year {
		amounts[when.Month()-1] += v
	}
	return amounts
}
