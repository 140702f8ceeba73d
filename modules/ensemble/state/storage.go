package state

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"
	"github.com/moznion/go-optional"

	types "fadroma/modules/ensemble/types"
)

// contractStorage adapts a Store to the contract facing Storage interface.
// Contracts can't handle backend errors, so a failing backend panics.
type contractStorage struct {
	state   *State
	address string
}

var _ types.Storage = &contractStorage{}

func (cs *contractStorage) lookup(key []byte) optional.Option[[]byte] {
	value, err := cs.state.store(cs.address).Get(cs.state.ctx, key)
	if err != nil {
		panic(errorsmod.Wrapf(ErrStorage, "get %x from %s: %s", key, cs.address, err))
	}
	return value
}

func (cs *contractStorage) Get(key []byte) []byte {
	return cs.lookup(key).TakeOr(nil)
}

func (cs *contractStorage) Set(key []byte, value []byte) {
	cs.state.record(StorageWrite{
		Address: cs.address,
		Key:     bytes.Clone(key),
		Old:     cs.lookup(key),
	})
	if err := cs.state.store(cs.address).Set(cs.state.ctx, key, value); err != nil {
		panic(errorsmod.Wrapf(ErrStorage, "set %x in %s: %s", key, cs.address, err))
	}
}

func (cs *contractStorage) Remove(key []byte) {
	old := cs.lookup(key)
	if old.IsNone() {
		return
	}
	cs.state.record(StorageWrite{
		Address: cs.address,
		Key:     bytes.Clone(key),
		Old:     old,
	})
	if err := cs.state.store(cs.address).Remove(cs.state.ctx, key); err != nil {
		panic(errorsmod.Wrapf(ErrStorage, "remove %x from %s: %s", key, cs.address, err))
	}
}

func (cs *contractStorage) Range(start []byte, end []byte, order types.Order) []types.Record {
	records, err := cs.state.store(cs.address).Range(cs.state.ctx, start, end, order)
	if err != nil {
		panic(errorsmod.Wrapf(ErrStorage, "range over %s: %s", cs.address, err))
	}
	return records
}

type readonlyStorage struct {
	inner *contractStorage
}

var _ types.ReadonlyStorage = &readonlyStorage{}

func (rs *readonlyStorage) Get(key []byte) []byte {
	return rs.inner.Get(key)
}

func (rs *readonlyStorage) Range(start []byte, end []byte, order types.Order) []types.Record {
	return rs.inner.Range(start, end, order)
}
