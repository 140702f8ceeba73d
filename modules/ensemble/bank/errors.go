package bank

import errorsmod "cosmossdk.io/errors"

const Codespace = "bank"

var (
	ErrInsufficientFunds = errorsmod.Register(Codespace, 2, "insufficient funds")
	ErrAccountNotFound   = errorsmod.Register(Codespace, 3, "account does not exist")
	ErrOverflow          = errorsmod.Register(Codespace, 4, "balance overflow")
	ErrInvalidCoins      = errorsmod.Register(Codespace, 5, "invalid coins")
)
