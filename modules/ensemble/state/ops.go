package state

import (
	"github.com/holiman/uint256"
	"github.com/moznion/go-optional"
)

// Op is one undo record. Ops are only created by State while a scope is
// open and applied in reverse when the scope is reverted.
type Op interface {
	undo(s *State) error
}

// StorageWrite holds the value a key had before a set or remove, None
// when the key did not exist.
type StorageWrite struct {
	Address string
	Key     []byte
	Old     optional.Option[[]byte]
}

func (o StorageWrite) undo(s *State) error {
	store := s.store(o.Address)
	if old, err := o.Old.Take(); err == nil {
		return store.Set(s.ctx, o.Key, old)
	}
	return store.Remove(s.ctx, o.Key)
}

type BalanceWrite struct {
	Address string
	Denom   string
	Old     optional.Option[uint256.Int]
}

func (o BalanceWrite) undo(s *State) error {
	s.bank.Restore(o.Address, o.Denom, o.Old)
	return nil
}

type InstanceCreated struct {
	Address string
}

func (o InstanceCreated) undo(s *State) error {
	s.registry.Remove(o.Address)
	return nil
}

type CodeChanged struct {
	Address string
	Old     uint64
}

func (o CodeChanged) undo(s *State) error {
	_, err := s.registry.SetCode(o.Address, o.Old)
	return err
}

type Scope struct {
	ID  uint64
	Ops []Op
}
