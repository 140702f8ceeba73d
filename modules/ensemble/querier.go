package ensemble

import (
	"github.com/moznion/go-optional"

	"fadroma/modules/ensemble/bank"
	"fadroma/modules/ensemble/registry"
	"fadroma/modules/ensemble/state"
	types "fadroma/modules/ensemble/types"
)

// querier is the read only view contracts get of the chain. It shares the
// ensemble's registry, bank and state rather than owning a copy, and runs
// under the lock held by whichever call invoked the contract.
type querier struct {
	registry *registry.Registry
	bank     *bank.Bank
	state    *state.State
	block    *types.BlockInfo
}

var _ types.Querier = &querier{}

func newQuerier(registry *registry.Registry, bank *bank.Bank, state *state.State, block *types.BlockInfo) *querier {
	return &querier{
		registry: registry,
		bank:     bank,
		state:    state,
		block:    block,
	}
}

func (q *querier) QueryWasmSmart(contractAddr string, msg []byte) ([]byte, error) {
	instance, err := q.registry.Instance(contractAddr)
	if err != nil {
		return nil, err
	}
	env := types.Env{
		Block:    *q.block,
		Contract: types.ContractInfo{Address: instance.Address, CodeHash: instance.CodeHash},
	}
	deps := types.QueryDeps{
		Storage: q.state.ReadonlyStorage(instance.Address),
		Querier: q,
	}
	return instance.Harness.Query(deps, env, msg)
}

func (q *querier) QueryBalance(address string, denom string) types.Coin {
	return q.bank.QueryBalances(address, optional.Some(denom))[0]
}

func (q *querier) QueryAllBalances(address string) types.Coins {
	return q.bank.QueryBalances(address, optional.None[string]())
}

func (q *querier) QueryContractInfo(contractAddr string) (types.ContractInfoResponse, error) {
	return q.registry.Info(contractAddr)
}
