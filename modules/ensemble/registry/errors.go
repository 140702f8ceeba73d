package registry

import errorsmod "cosmossdk.io/errors"

const Codespace = "registry"

var (
	ErrNotFound         = errorsmod.Register(Codespace, 2, "contract not found")
	ErrIDNotFound       = errorsmod.Register(Codespace, 3, "code id not found")
	ErrDuplicateAddress = errorsmod.Register(Codespace, 4, "contract address already in use")
	ErrInvalidCodeHash  = errorsmod.Register(Codespace, 5, "code hash mismatch")
)
