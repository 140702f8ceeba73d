package bank

import (
	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/moznion/go-optional"

	errorsmod "cosmossdk.io/errors"

	"fadroma/lib/utils"
	types "fadroma/modules/ensemble/types"
)

type balances map[string]*uint256.Int

// Bank holds the native token balances of every account. Every mutating
// call either applies in full or leaves the ledger untouched.
type Bank struct {
	accounts map[string]balances
	validate *validator.Validate
}

func New() *Bank {
	return &Bank{
		accounts: make(map[string]balances),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// AddFunds credits coins to address, creating the account if needed.
func (b *Bank) AddFunds(address string, coins types.Coins) error {
	totals, denoms, err := b.totals(coins)
	if err != nil {
		return err
	}
	for _, denom := range denoms {
		if _, overflow := new(uint256.Int).AddOverflow(b.balance(address, denom), totals[denom]); overflow {
			return errorsmod.Wrapf(ErrOverflow, "crediting %s%s to %s", totals[denom].Dec(), denom, address)
		}
	}
	for _, denom := range denoms {
		b.credit(address, denom, totals[denom])
	}
	return nil
}

// RemoveFunds debits coins from address. Unlike a transfer, removing from
// an account that was never funded fails with ErrAccountNotFound.
func (b *Bank) RemoveFunds(address string, coins types.Coins) error {
	totals, denoms, err := b.totals(coins)
	if err != nil {
		return err
	}
	if _, ok := b.accounts[address]; !ok {
		return errorsmod.Wrapf(ErrAccountNotFound, "%s", address)
	}
	if err := b.checkDebit(address, totals, denoms); err != nil {
		return err
	}
	for _, denom := range denoms {
		b.debit(address, denom, totals[denom])
	}
	return nil
}

// Transfer moves coins from one account to another. The check covers every
// denom before anything is moved, so a failure on the second coin leaves
// the first untouched.
func (b *Bank) Transfer(from string, to string, coins types.Coins) error {
	totals, denoms, err := b.totals(coins)
	if err != nil {
		return err
	}
	if err := b.checkDebit(from, totals, denoms); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	for _, denom := range denoms {
		if _, overflow := new(uint256.Int).AddOverflow(b.balance(to, denom), totals[denom]); overflow {
			return errorsmod.Wrapf(ErrOverflow, "crediting %s%s to %s", totals[denom].Dec(), denom, to)
		}
	}
	for _, denom := range denoms {
		b.debit(from, denom, totals[denom])
		b.credit(to, denom, totals[denom])
	}
	return nil
}

// QueryBalances returns the balance of a single denom (zero when not held)
// or, with no denom, every non-zero balance sorted by denom.
func (b *Bank) QueryBalances(address string, denom optional.Option[string]) types.Coins {
	if d, err := denom.Take(); err == nil {
		return types.Coins{{Denom: d, Amount: *b.balance(address, d)}}
	}

	res := make(types.Coins, 0)
	account := b.accounts[address]
	for _, d := range utils.SortedKeys(account) {
		if account[d].IsZero() {
			continue
		}
		res = append(res, types.Coin{Denom: d, Amount: *account[d]})
	}
	return res
}

// Balance returns the raw ledger entry for undo journaling. None means the
// entry does not exist, which is different from a zero balance.
func (b *Bank) Balance(address string, denom string) optional.Option[uint256.Int] {
	account, ok := b.accounts[address]
	if !ok {
		return optional.None[uint256.Int]()
	}
	amount, ok := account[denom]
	if !ok {
		return optional.None[uint256.Int]()
	}
	return optional.Some(*amount)
}

// Restore puts an entry back to a value previously read with Balance.
func (b *Bank) Restore(address string, denom string, amount optional.Option[uint256.Int]) {
	value, err := amount.Take()
	if err != nil {
		account, ok := b.accounts[address]
		if !ok {
			return
		}
		delete(account, denom)
		if len(account) == 0 {
			delete(b.accounts, address)
		}
		return
	}
	b.account(address)[denom] = &value
}

// Supply sums denom over every account.
func (b *Bank) Supply(denom string) uint256.Int {
	total := uint256.Int{}
	for _, account := range b.accounts {
		if amount, ok := account[denom]; ok {
			total.Add(&total, amount)
		}
	}
	return total
}

// Denoms lists the denoms touched by coins in order of first appearance.
func Denoms(coins types.Coins) []string {
	seen := make(map[string]bool)
	res := make([]string, 0, len(coins))
	for _, c := range coins {
		if !seen[c.Denom] {
			seen[c.Denom] = true
			res = append(res, c.Denom)
		}
	}
	return res
}

func (b *Bank) totals(coins types.Coins) (map[string]*uint256.Int, []string, error) {
	totals := make(map[string]*uint256.Int)
	denoms := make([]string, 0, len(coins))
	for _, c := range coins {
		if err := b.validate.Struct(c); err != nil {
			return nil, nil, errorsmod.Wrapf(ErrInvalidCoins, "%s: %s", c.String(), err)
		}
		if c.IsZero() {
			continue
		}
		total, ok := totals[c.Denom]
		if !ok {
			total = new(uint256.Int)
			totals[c.Denom] = total
			denoms = append(denoms, c.Denom)
		}
		if _, overflow := total.AddOverflow(total, &c.Amount); overflow {
			return nil, nil, errorsmod.Wrapf(ErrOverflow, "summing %s", c.Denom)
		}
	}
	return totals, denoms, nil
}

func (b *Bank) checkDebit(address string, totals map[string]*uint256.Int, denoms []string) error {
	for _, denom := range denoms {
		balance := b.balance(address, denom)
		if balance.Lt(totals[denom]) {
			return errorsmod.Wrapf(
				ErrInsufficientFunds,
				"%s has %s%s, needs %s%s",
				address, balance.Dec(), denom, totals[denom].Dec(), denom,
			)
		}
	}
	return nil
}

func (b *Bank) balance(address string, denom string) *uint256.Int {
	if amount, ok := b.accounts[address][denom]; ok {
		return amount
	}
	return new(uint256.Int)
}

func (b *Bank) account(address string) balances {
	account, ok := b.accounts[address]
	if !ok {
		account = make(balances)
		b.accounts[address] = account
	}
	return account
}

func (b *Bank) credit(address string, denom string, amount *uint256.Int) {
	b.account(address)[denom] = new(uint256.Int).Add(b.balance(address, denom), amount)
}

func (b *Bank) debit(address string, denom string, amount *uint256.Int) {
	b.account(address)[denom] = new(uint256.Int).Sub(b.balance(address, denom), amount)
}
