package ensemble_types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Coin is a denomination and a non-negative amount. Amounts are 256 bit so
// that balance arithmetic can detect overflow instead of wrapping.
type Coin struct {
	Denom  string      `validate:"required"`
	Amount uint256.Int `validate:"-"`
}

type Coins []Coin

type coinJson struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

func NewCoin(amount uint64, denom string) Coin {
	return Coin{
		Denom:  denom,
		Amount: *uint256.NewInt(amount),
	}
}

func NewCoins(coins ...Coin) Coins {
	return Coins(coins)
}

func (c Coin) IsZero() bool {
	return c.Amount.IsZero()
}

func (c Coin) String() string {
	return c.Amount.Dec() + c.Denom
}

// MarshalJSON encodes the amount as a decimal string, like cosmwasm_std::Coin.
func (c Coin) MarshalJSON() ([]byte, error) {
	return json.Marshal(coinJson{
		Denom:  c.Denom,
		Amount: c.Amount.Dec(),
	})
}

func (c *Coin) UnmarshalJSON(data []byte) error {
	raw := coinJson{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := uint256.FromDecimal(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid coin amount %q: %w", raw.Amount, err)
	}
	c.Denom = raw.Denom
	c.Amount = *amount
	return nil
}

func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

func (cs Coins) IsZero() bool {
	for _, c := range cs {
		if !c.IsZero() {
			return false
		}
	}
	return true
}

// AmountOf returns the amount of denom in cs, summing duplicates.
func (cs Coins) AmountOf(denom string) uint256.Int {
	total := uint256.Int{}
	for _, c := range cs {
		if c.Denom == denom {
			total.Add(&total, &c.Amount)
		}
	}
	return total
}
