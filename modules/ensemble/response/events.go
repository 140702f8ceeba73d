package response

import (
	"strings"

	errorsmod "cosmossdk.io/errors"

	types "fadroma/modules/ensemble/types"
)

const Codespace = "events"

var (
	ErrEmptyAttributeKey    = errorsmod.Register(Codespace, 2, "empty attribute key")
	ErrEmptyAttributeValue  = errorsmod.Register(Codespace, 3, "empty attribute value")
	ErrReservedAttributeKey = errorsmod.Register(Codespace, 4, "attribute key is reserved")
	ErrEventTypeTooShort    = errorsmod.Register(Codespace, 5, "event type too short")
)

const (
	ContractAddressKey = "_contract_address"
	ReservedPrefix     = "_"
	CustomEventPrefix  = "wasm-"
	minEventTypeLength = 2
)

// contractEvents builds the events of one contract invocation: the system
// event for the kind of call, a "wasm" event when the contract set any
// attributes, and one "wasm-<type>" event per custom event. Every contract
// emitted event starts with the contract address.
func contractEvents(kind string, address string, system []types.Attribute, res types.ContractResponse) ([]types.Event, error) {
	events := []types.Event{{
		Type:       kind,
		Attributes: append([]types.Attribute{{Key: ContractAddressKey, Value: address}}, system...),
	}}

	if len(res.Attributes) > 0 {
		attrs, err := validateAttributes(res.Attributes)
		if err != nil {
			return nil, err
		}
		events = append(events, withAddress("wasm", address, attrs))
	}

	for _, event := range res.Events {
		ty := strings.TrimSpace(event.Type)
		if len(ty) < minEventTypeLength {
			return nil, errorsmod.Wrapf(ErrEventTypeTooShort, "%q from %s", event.Type, address)
		}
		attrs, err := validateAttributes(event.Attributes)
		if err != nil {
			return nil, err
		}
		events = append(events, withAddress(CustomEventPrefix+ty, address, attrs))
	}
	return events, nil
}

func withAddress(ty string, address string, attrs []types.Attribute) types.Event {
	return types.Event{
		Type:       ty,
		Attributes: append([]types.Attribute{{Key: ContractAddressKey, Value: address}}, attrs...),
	}
}

// validateAttributes trims keys and values and rejects empty or reserved
// ones the same way the chain does.
func validateAttributes(attrs []types.Attribute) ([]types.Attribute, error) {
	res := make([]types.Attribute, len(attrs))
	for i, attr := range attrs {
		key := strings.TrimSpace(attr.Key)
		if key == "" {
			return nil, errorsmod.Wrapf(ErrEmptyAttributeKey, "value %q", attr.Value)
		}
		value := strings.TrimSpace(attr.Value)
		if value == "" {
			return nil, errorsmod.Wrapf(ErrEmptyAttributeValue, "key %q", key)
		}
		if strings.HasPrefix(key, ReservedPrefix) {
			return nil, errorsmod.Wrapf(ErrReservedAttributeKey, "%q", key)
		}
		res[i] = types.Attribute{Key: key, Value: value}
	}
	return res, nil
}

func transferEvent(sender string, recipient string, coins types.Coins) types.Event {
	return types.NewEvent("transfer").
		AddAttribute("recipient", recipient).
		AddAttribute("sender", sender).
		AddAttribute("amount", coins.String())
}

func burnEvent(burner string, coins types.Coins) types.Event {
	return types.NewEvent("burn").
		AddAttribute("burner", burner).
		AddAttribute("amount", coins.String())
}

// Flatten returns the events of r and all of its children, depth first,
// each response's own events before those of its children.
func Flatten(r Response) []types.Event {
	events := r.Events()
	for _, child := range r.Children() {
		events = append(events, Flatten(child)...)
	}
	return events
}
