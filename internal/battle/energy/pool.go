// Package energy implements the per-side typed energy ledger.
//
// A pool holds one counter per elemental currency plus a wildcard counter.
// Wildcard energy only covers shortfalls in named currencies; it is never
// generated by the turn cycle and is granted explicitly by moves or battle
// options.
package energy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientEnergy reports a spend that the pool cannot cover.
var ErrInsufficientEnergy = errors.New("insufficient energy")

// Currency identifies one energy counter.
type Currency int

const (
	Fire Currency = iota
	Water
	Grass
	Electric
	Wildcard

	currencyCount
)

// Named lists the elemental currencies in generation order.
var Named = [...]Currency{Fire, Water, Grass, Electric}

var currencyNames = [...]string{"fire", "water", "grass", "electric", "wildcard"}

// String returns the lowercase currency name.
func (c Currency) String() string {
	if c < 0 || c >= currencyCount {
		return fmt.Sprintf("currency(%d)", int(c))
	}
	return currencyNames[c]
}

// Valid reports whether c is a known currency.
func (c Currency) Valid() bool {
	return c >= 0 && c < currencyCount
}

// ParseCurrency parses a currency name, case-insensitively.
func ParseCurrency(value string) (Currency, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for i, name := range currencyNames {
		if name == value {
			return Currency(i), nil
		}
	}
	return 0, fmt.Errorf("unknown currency %q", value)
}

// MarshalText encodes the currency by name.
func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a currency name.
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Pool is one side's energy ledger. The zero value is an empty pool.
type Pool [currencyCount]int

// Cost is a move's price, indexed the same way as Pool.
type Cost [currencyCount]int

// Total sums every counter in the pool.
func (p Pool) Total() int {
	total := 0
	for _, v := range p {
		total += v
	}
	return total
}

// Total sums every requirement in the cost.
func (c Cost) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// Valid reports whether no requirement is negative.
func (c Cost) Valid() bool {
	for _, v := range c {
		if v < 0 {
			return false
		}
	}
	return true
}

// shortfall sums the named requirements the pool cannot pay directly.
func shortfall(pool Pool, cost Cost) int {
	missing := 0
	for _, c := range Named {
		if need := cost[c] - pool[c]; need > 0 {
			missing += need
		}
	}
	return missing
}

// CanAfford reports whether the pool covers the cost, using wildcard energy
// for any named shortfall and for the cost's own wildcard requirement.
func CanAfford(pool Pool, cost Cost) bool {
	if !cost.Valid() {
		return false
	}
	return shortfall(pool, cost)+cost[Wildcard] <= pool[Wildcard]
}

// Spend deducts the cost, named currencies first and the residual from
// wildcard. The pool is returned unchanged with ErrInsufficientEnergy when
// the cost cannot be covered.
func Spend(pool Pool, cost Cost) (Pool, error) {
	if !CanAfford(pool, cost) {
		return pool, ErrInsufficientEnergy
	}
	residual := cost[Wildcard]
	for _, c := range Named {
		paid := cost[c]
		if paid > pool[c] {
			residual += paid - pool[c]
			paid = pool[c]
		}
		pool[c] -= paid
	}
	pool[Wildcard] -= residual
	return pool, nil
}

// Grant adds amount of the currency to the pool. Non-positive amounts and
// unknown currencies leave the pool unchanged.
func Grant(pool Pool, currency Currency, amount int) Pool {
	if amount <= 0 || !currency.Valid() {
		return pool
	}
	pool[currency] += amount
	return pool
}

// Generation returns how many units a side with alive fighters receives at
// the start of the given turn.
func Generation(turn, alive int) int {
	if turn <= 1 {
		return max(1, alive)
	}
	return max(0, alive)
}
