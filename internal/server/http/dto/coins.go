package dto

import "github.com/polkiloo/vendingmachine/internal/domain/model"

// Coins is a set of coins keyed by denomination.
type Coins struct {
	Coin01  int `json:"coin_01"`
	Coin05  int `json:"coin_05"`
	Coin10  int `json:"coin_10"`
	Coin25  int `json:"coin_25"`
	Coin50  int `json:"coin_50"`
	Coin100 int `json:"coin_100"`
}

// NewCoins converts domain coins.
func NewCoins(c model.Coins) Coins {
	return Coins{Coin01: c[0], Coin05: c[1], Coin10: c[2], Coin25: c[3], Coin50: c[4], Coin100: c[5]}
}

// Model converts to domain coins without validation.
func (c Coins) Model() model.Coins {
	return model.Coins{c.Coin01, c.Coin05, c.Coin10, c.Coin25, c.Coin50, c.Coin100}
}

func (c Coins) NonNegative() bool {
	for _, n := range c.Model() {
		if n < 0 {
			return false
		}
	}
	return true
}
