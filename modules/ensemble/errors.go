package ensemble

import (
	"errors"

	errorsmod "cosmossdk.io/errors"

	types "fadroma/modules/ensemble/types"
)

const Codespace = "ensemble"

var (
	ErrUnsupportedMessage = errorsmod.Register(Codespace, 2, "unsupported message")
	ErrUnauthorized       = errorsmod.Register(Codespace, 3, "unauthorized")
	ErrMigrateUnsupported = errorsmod.Register(Codespace, 4, "contract does not support migrate")
	ErrInvalidConfig      = errorsmod.Register(Codespace, 5, "invalid config")
	ErrUnexpectedResponse = errorsmod.Register(Codespace, 6, "unexpected response type")
)

// contractError hands back the error a harness returned exactly as it was
// returned, everything else passes through.
func contractError(err error) error {
	var ce *types.ContractError
	if errors.As(err, &ce) {
		return ce.Err
	}
	return err
}
