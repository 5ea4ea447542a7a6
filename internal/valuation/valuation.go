// Package valuation folds an ordered buy/sell transaction history into the
// current holdings of a portfolio: quantity, average cost basis, market value,
// unrealized gain, and sector-weighted allocation. It is a pure computation
// over already-fetched data and performs no I/O.
package valuation

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// TransactionType is the side of a recorded trade.
type TransactionType string

const (
	Buy  TransactionType = "buy"
	Sell TransactionType = "sell"
)

// StockRef is the resolved stock reference attached to a transaction record.
// Callers resolve it eagerly before aggregation; the fold never joins.
type StockRef struct {
	Symbol string `json:"symbol"`
	Sector string `json:"sector"`
}

// Record is one transaction annotated with its resolved stock.
type Record struct {
	Type     TransactionType `json:"type"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Fees     float64         `json:"fees"`
	Date     time.Time       `json:"date"`
	Stock    StockRef        `json:"stock"`
}

// Holding is the derived position in one stock. It is never persisted and is
// recomputed from scratch on every aggregation pass.
type Holding struct {
	Symbol            string  `json:"symbol"`
	Sector            string  `json:"sector"`
	Quantity          float64 `json:"quantity"`
	AveragePrice      float64 `json:"average_price"`
	CurrentPrice      float64 `json:"current_price"`
	TotalCost         float64 `json:"total_cost"`
	CurrentValue      float64 `json:"current_value"`
	UnrealizedGain    float64 `json:"unrealized_gain"`
	UnrealizedGainPct float64 `json:"unrealized_gain_pct"`
	Weight            float64 `json:"weight"`
}

// SectorAllocation is the summed market value of one sector and its share of
// total portfolio value.
type SectorAllocation struct {
	Sector     string  `json:"sector"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Snapshot is the full valuation result for one portfolio.
type Snapshot struct {
	Holdings         map[string]Holding `json:"holdings"`
	TotalValue       float64            `json:"total_value"`
	TotalCost        float64            `json:"total_cost"`
	TotalGain        float64            `json:"total_gain"`
	TotalGainPct     float64            `json:"total_gain_pct"`
	SectorAllocation []SectorAllocation `json:"sector_allocation"`
}

// PriceFunc supplies a current price for a stock. Returning false means no
// quote is available and the price of the last processed transaction for that
// symbol is used instead.
type PriceFunc func(stock StockRef) (float64, bool)

// ErrUnresolvedStock indicates a transaction whose stock reference is missing.
// Such records are a data-integrity problem and are never aggregated silently.
var ErrUnresolvedStock = errors.New("transaction references an unresolved stock")

// position is the running fold state for one symbol.
type position struct {
	sector    string
	quantity  float64
	avgPrice  float64
	totalCost float64
	lastPrice float64
}

// Aggregate folds transaction records into a valuation snapshot.
//
// Records are processed in ascending date order; records sharing a date keep
// their relative input order, so callers listing by date with a creation-order
// tiebreak get deterministic results. Sells against a symbol with no open
// position are ignored, and a sell that meets or exceeds the held quantity
// closes the position entirely. Cost basis and average price are never
// adjusted by sells: the running total cost only grows, matching the tracked
// application's behavior.
func Aggregate(records []Record, price PriceFunc) (*Snapshot, error) {
	ordered := make([]Record, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	positions := make(map[string]*position)
	tracked := make(map[string]bool)
	var symbolOrder []string
	var totalCost float64

	for i, rec := range ordered {
		if rec.Stock.Symbol == "" {
			return nil, fmt.Errorf("record %d (%s on %s): %w",
				i, rec.Type, rec.Date.Format("2006-01-02"), ErrUnresolvedStock)
		}

		symbol := rec.Stock.Symbol
		pos := positions[symbol]

		switch rec.Type {
		case Buy:
			cost := rec.Quantity*rec.Price + rec.Fees
			totalCost += cost
			if pos == nil {
				avg := rec.Price
				if rec.Quantity > 0 {
					// Fees are part of the cost basis, so they raise the average.
					avg = cost / rec.Quantity
				}
				positions[symbol] = &position{
					sector:    rec.Stock.Sector,
					quantity:  rec.Quantity,
					avgPrice:  avg,
					totalCost: cost,
					lastPrice: rec.Price,
				}
				// A symbol keeps its original slot if the position is reopened
				// after a full sell.
				if !tracked[symbol] {
					tracked[symbol] = true
					symbolOrder = append(symbolOrder, symbol)
				}
				continue
			}
			pos.quantity += rec.Quantity
			pos.totalCost += cost
			if pos.quantity > 0 {
				pos.avgPrice = pos.totalCost / pos.quantity
			}
			pos.lastPrice = rec.Price

		case Sell:
			// Selling with no open position has nothing to reduce.
			if pos == nil {
				continue
			}
			pos.quantity -= rec.Quantity
			pos.lastPrice = rec.Price
			if pos.quantity <= 0 {
				// Full or over-sell exits the position; shorts are not modeled.
				delete(positions, symbol)
			}

		default:
			return nil, fmt.Errorf("record %d: unknown transaction type %q", i, rec.Type)
		}
	}

	snapshot := &Snapshot{
		Holdings:         make(map[string]Holding, len(positions)),
		TotalCost:        totalCost,
		SectorAllocation: []SectorAllocation{},
	}

	for _, symbol := range symbolOrder {
		pos, open := positions[symbol]
		if !open {
			continue
		}

		current := pos.lastPrice
		if price != nil {
			if quoted, ok := price(StockRef{Symbol: symbol, Sector: pos.sector}); ok {
				current = quoted
			}
		}

		h := Holding{
			Symbol:       symbol,
			Sector:       pos.sector,
			Quantity:     pos.quantity,
			AveragePrice: pos.avgPrice,
			CurrentPrice: current,
			TotalCost:    pos.totalCost,
			CurrentValue: pos.quantity * current,
		}
		h.UnrealizedGain = h.CurrentValue - h.TotalCost
		if h.TotalCost > 0 {
			h.UnrealizedGainPct = h.UnrealizedGain / h.TotalCost * 100
		}

		snapshot.Holdings[symbol] = h
		snapshot.TotalValue += h.CurrentValue
	}

	snapshot.TotalGain = snapshot.TotalValue - snapshot.TotalCost
	if snapshot.TotalCost > 0 {
		snapshot.TotalGainPct = snapshot.TotalGain / snapshot.TotalCost * 100
	}

	sectorValues := make(map[string]float64)
	var sectorOrder []string
	for _, symbol := range symbolOrder {
		h, open := snapshot.Holdings[symbol]
		if !open {
			continue
		}

		if snapshot.TotalValue > 0 {
			h.Weight = h.CurrentValue / snapshot.TotalValue * 100
			snapshot.Holdings[symbol] = h
		}

		if _, seen := sectorValues[h.Sector]; !seen {
			sectorOrder = append(sectorOrder, h.Sector)
		}
		sectorValues[h.Sector] += h.CurrentValue
	}

	for _, sector := range sectorOrder {
		alloc := SectorAllocation{Sector: sector, Value: sectorValues[sector]}
		if snapshot.TotalValue > 0 {
			alloc.Percentage = alloc.Value / snapshot.TotalValue * 100
		}
		snapshot.SectorAllocation = append(snapshot.SectorAllocation, alloc)
	}

	return snapshot, nil
}
