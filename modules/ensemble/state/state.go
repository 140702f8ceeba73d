package state

import (
	"context"

	"github.com/ipfs/go-datastore"

	errorsmod "cosmossdk.io/errors"

	"fadroma/lib/logger"
	"fadroma/modules/ensemble/bank"
	"fadroma/modules/ensemble/registry"
	"fadroma/modules/ensemble/storage"
	types "fadroma/modules/ensemble/types"
)

const Codespace = "state"

var (
	ErrNoScope = errorsmod.Register(Codespace, 2, "no open scope")
	ErrStorage = errorsmod.Register(Codespace, 3, "storage backend failure")
)

// State owns everything a call can change: contract storage, the bank and
// the set of instances. While at least one scope is open every mutation is
// journaled into the innermost scope so it can be undone.
type State struct {
	ctx      context.Context
	backend  datastore.Datastore
	stores   map[string]*storage.Store
	bank     *bank.Bank
	registry *registry.Registry
	scopes   []*Scope
	log      logger.Logger
}

func New(ctx context.Context, backend datastore.Datastore, bank *bank.Bank, registry *registry.Registry, log logger.Logger) *State {
	return &State{
		ctx:      ctx,
		backend:  backend,
		stores:   make(map[string]*storage.Store),
		bank:     bank,
		registry: registry,
		scopes:   make([]*Scope, 0),
		log:      log,
	}
}

func (s *State) Bank() *bank.Bank {
	return s.bank
}

func (s *State) Registry() *registry.Registry {
	return s.registry
}

func (s *State) PushScope(id uint64) {
	s.scopes = append(s.scopes, &Scope{ID: id, Ops: make([]Op, 0)})
}

// RevertScope pops the innermost scope and undoes its ops newest first.
func (s *State) RevertScope() error {
	if len(s.scopes) == 0 {
		return ErrNoScope
	}
	scope := s.scopes[len(s.scopes)-1]
	s.scopes = s.scopes[:len(s.scopes)-1]

	for i := len(scope.Ops) - 1; i >= 0; i-- {
		if err := scope.Ops[i].undo(s); err != nil {
			return errorsmod.Wrapf(ErrStorage, "reverting scope %d: %s", scope.ID, err)
		}
	}
	s.log.Debug("reverted scope", scope.ID, "ops", len(scope.Ops))
	return nil
}

// RevertTo reverts scopes until depth remain.
func (s *State) RevertTo(depth int) error {
	for len(s.scopes) > depth {
		if err := s.RevertScope(); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) Revert() error {
	return s.RevertTo(0)
}

// Commit drops every scope, keeping all changes.
func (s *State) Commit() {
	s.log.Debug("commit", "scopes", len(s.scopes))
	s.scopes = s.scopes[:0]
}

func (s *State) Depth() int {
	return len(s.scopes)
}

func (s *State) record(op Op) {
	if len(s.scopes) == 0 {
		return
	}
	scope := s.scopes[len(s.scopes)-1]
	scope.Ops = append(scope.Ops, op)
}

func (s *State) AddFunds(address string, coins types.Coins) error {
	s.recordBalances(coins, address)
	return s.bank.AddFunds(address, coins)
}

func (s *State) RemoveFunds(address string, coins types.Coins) error {
	s.recordBalances(coins, address)
	return s.bank.RemoveFunds(address, coins)
}

func (s *State) Transfer(from string, to string, coins types.Coins) error {
	s.recordBalances(coins, from, to)
	return s.bank.Transfer(from, to, coins)
}

func (s *State) recordBalances(coins types.Coins, addresses ...string) {
	for _, address := range addresses {
		for _, denom := range bank.Denoms(coins) {
			s.record(BalanceWrite{
				Address: address,
				Denom:   denom,
				Old:     s.bank.Balance(address, denom),
			})
		}
	}
}

func (s *State) CreateInstance(codeID uint64, label string, admin string) (*registry.Instance, error) {
	instance, err := s.registry.Create(codeID, label, admin)
	if err != nil {
		return nil, err
	}
	s.record(InstanceCreated{Address: instance.Address})
	return instance, nil
}

func (s *State) SetCode(address string, codeID uint64) error {
	previous, err := s.registry.SetCode(address, codeID)
	if err != nil {
		return err
	}
	s.record(CodeChanged{Address: address, Old: previous})
	return nil
}

func (s *State) store(address string) *storage.Store {
	store, ok := s.stores[address]
	if !ok {
		store = storage.New(s.backend, storage.ContractNamespace(address))
		s.stores[address] = store
	}
	return store
}

// Storage returns the journaling handle a contract writes through.
func (s *State) Storage(address string) types.Storage {
	return &contractStorage{state: s, address: address}
}

func (s *State) ReadonlyStorage(address string) types.ReadonlyStorage {
	return &readonlyStorage{inner: &contractStorage{state: s, address: address}}
}
