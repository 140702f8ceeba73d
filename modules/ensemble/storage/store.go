package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	"github.com/ipfs/go-datastore/query"
	"github.com/moznion/go-optional"

	types "fadroma/modules/ensemble/types"
)

const keyPrefix = "k"

// Namespace is the datastore prefix one contract's keys live under.
type Namespace string

func ContractNamespace(address string) Namespace {
	return Namespace("/contracts/" + hex.EncodeToString([]byte(address)))
}

func (n Namespace) Key() datastore.Key {
	return datastore.NewKey(string(n))
}

// Store is a byte keyed KV store scoped to a single namespace of a shared
// datastore. Keys are hex encoded so arbitrary bytes survive the datastore
// path rules and still sort in byte order.
type Store struct {
	ds datastore.Datastore
}

func New(backend datastore.Datastore, ns Namespace) *Store {
	return &Store{
		ds: namespace.Wrap(backend, ns.Key()),
	}
}

func (s *Store) Get(ctx context.Context, key []byte) (optional.Option[[]byte], error) {
	value, err := s.ds.Get(ctx, encodeKey(key))
	if errors.Is(err, datastore.ErrNotFound) {
		return optional.None[[]byte](), nil
	}
	if err != nil {
		return nil, err
	}
	return optional.Some(value), nil
}

func (s *Store) Set(ctx context.Context, key []byte, value []byte) error {
	return s.ds.Put(ctx, encodeKey(key), bytes.Clone(value))
}

func (s *Store) Remove(ctx context.Context, key []byte) error {
	err := s.ds.Delete(ctx, encodeKey(key))
	if errors.Is(err, datastore.ErrNotFound) {
		return nil
	}
	return err
}

// Range returns the records with start <= key < end, nil bounds are open.
// Hex keys sort like the bytes they encode, so bounds and order are left to
// the datastore query.
func (s *Store) Range(ctx context.Context, start []byte, end []byte, order types.Order) ([]types.Record, error) {
	q := query.Query{
		Orders: []query.Order{query.OrderByKey{}},
	}
	if order == types.Descending {
		q.Orders = []query.Order{query.OrderByKeyDescending{}}
	}
	if start != nil {
		q.Filters = append(q.Filters, query.FilterKeyCompare{Op: query.GreaterThanOrEqual, Key: encodeKey(start).String()})
	}
	if end != nil {
		q.Filters = append(q.Filters, query.FilterKeyCompare{Op: query.LessThan, Key: encodeKey(end).String()})
	}

	results, err := s.ds.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	entries, err := results.Rest()
	if err != nil {
		return nil, err
	}

	records := make([]types.Record, len(entries))
	for i, entry := range entries {
		key, err := decodeKey(entry.Key)
		if err != nil {
			return nil, err
		}
		records[i] = types.Record{Key: key, Value: entry.Value}
	}
	return records, nil
}

func encodeKey(key []byte) datastore.Key {
	return datastore.NewKey(keyPrefix + hex.EncodeToString(key))
}

func decodeKey(key string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(key, "/"), keyPrefix))
}
