package model

import (
	"fmt"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// Denomination is a coin value accepted and dispensed by a machine.
type Denomination int

const (
	Coin1   Denomination = 1
	Coin5   Denomination = 5
	Coin10  Denomination = 10
	Coin25  Denomination = 25
	Coin50  Denomination = 50
	Coin100 Denomination = 100
)

// Denominations lists accepted coins in ascending order. Coins are indexed the same way.
var Denominations = [6]Denomination{Coin1, Coin5, Coin10, Coin25, Coin50, Coin100}

// MaxCoinCount bounds every counter so coin totals stay far from int overflow.
const MaxCoinCount = 1_000_000

// Coins holds a quantity per denomination. It serves both as a machine ledger and as a
// set of inserted or returned coins.
type Coins [6]int

// NewCoins builds coin counts in ascending denomination order and rejects negative counts.
func NewCoins(c1, c5, c10, c25, c50, c100 int) (Coins, error) {
	coins := Coins{c1, c5, c10, c25, c50, c100}
	if err := coins.Validate(); err != nil {
		return Coins{}, err
	}
	return coins, nil
}

// Validate ensures every counter lies within 0..MaxCoinCount.
func (c Coins) Validate() error {
	for i, qty := range c {
		if qty < 0 {
			return fmt.Errorf("%w: coin %d has quantity %d", domainErrors.ErrNegativeQuantity, Denominations[i], qty)
		}
		if qty > MaxCoinCount {
			return fmt.Errorf("%w: coin %d has quantity %d", domainErrors.ErrTooManyCoins, Denominations[i], qty)
		}
	}
	return nil
}

// Count returns quantity of the given denomination.
func (c Coins) Count(d Denomination) int {
	for i, denom := range Denominations {
		if denom == d {
			return c[i]
		}
	}
	return 0
}

// Total returns the value of all coins.
func (c Coins) Total() int {
	total := 0
	for i, qty := range c {
		total += qty * int(Denominations[i])
	}
	return total
}

// IsZero reports whether there are no coins at all.
func (c Coins) IsZero() bool {
	return c == Coins{}
}

// Add returns the ledger increased by delta. The receiver is left untouched when any
// counter would exceed MaxCoinCount.
func (c Coins) Add(delta Coins) (Coins, error) {
	if err := delta.Validate(); err != nil {
		return c, err
	}
	result := c
	for i := range result {
		result[i] += delta[i]
		if result[i] > MaxCoinCount {
			return c, fmt.Errorf("%w: coin %d would hold %d", domainErrors.ErrTooManyCoins, Denominations[i], result[i])
		}
	}
	return result, nil
}

// Subtract returns the ledger decreased by delta. The receiver is left untouched when any
// counter would drop below zero.
func (c Coins) Subtract(delta Coins) (Coins, error) {
	if err := delta.Validate(); err != nil {
		return c, err
	}
	result := c
	for i := range result {
		result[i] -= delta[i]
		if result[i] < 0 {
			return c, fmt.Errorf("%w: coin %d short by %d", domainErrors.ErrNegativeQuantity, Denominations[i], -result[i])
		}
	}
	return result, nil
}

// MakeChange plans change for amount greedily from the largest denomination down and
// returns the coins to hand out together with the remaining ledger. Nothing is consumed
// unless the whole amount can be represented.
func (c Coins) MakeChange(amount int) (change Coins, rest Coins, err error) {
	if amount < 0 {
		return Coins{}, c, domainErrors.ErrNegativeChange
	}

	remaining := amount
	for i := len(Denominations) - 1; i >= 0 && remaining > 0; i-- {
		value := int(Denominations[i])
		take := min(c[i], remaining/value)
		change[i] = take
		remaining -= take * value
	}
	if remaining != 0 {
		return Coins{}, c, fmt.Errorf("%w: %d of %d can not be returned", domainErrors.ErrChangeUnavailable, remaining, amount)
	}

	rest, err = c.Subtract(change)
	if err != nil {
		return Coins{}, c, err
	}
	return change, rest, nil
}
