package registry

import (
	"encoding/hex"
	"fmt"

	"github.com/minio/sha256-simd"

	errorsmod "cosmossdk.io/errors"

	types "fadroma/modules/ensemble/types"
)

type Code struct {
	ID       uint64
	CodeHash string
	Harness  types.ContractHarness
}

type Instance struct {
	Address string
	CodeID  uint64
	Label   string
	Admin   string
	// CodeHash changes on migrate, Harness follows CodeID
	CodeHash string
	Harness  types.ContractHarness
}

func (i *Instance) Link() types.ContractLink {
	return types.ContractLink{Address: i.Address, CodeHash: i.CodeHash}
}

// CheckCodeHash accepts an empty hash, callers that don't know the hash
// just don't check it.
func (i *Instance) CheckCodeHash(codeHash string) error {
	if codeHash != "" && codeHash != i.CodeHash {
		return errorsmod.Wrapf(ErrInvalidCodeHash, "%s has %s, got %s", i.Address, i.CodeHash, codeHash)
	}
	return nil
}

// Registry maps code ids to harnesses and addresses to instances. Code ids
// are dense and start at 0.
type Registry struct {
	codes     []*Code
	instances map[string]*Instance
	prefix    string
	sequence  uint64
}

func New(addressPrefix string) *Registry {
	return &Registry{
		codes:     make([]*Code, 0),
		instances: make(map[string]*Instance),
		prefix:    addressPrefix,
	}
}

func CodeHash(id uint64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("ensemble_code_%d", id)))
	return hex.EncodeToString(sum[:])
}

func (r *Registry) Register(harness types.ContractHarness) types.ContractCode {
	code := &Code{
		ID:       uint64(len(r.codes)),
		CodeHash: CodeHash(uint64(len(r.codes))),
		Harness:  harness,
	}
	r.codes = append(r.codes, code)
	return types.ContractCode{ID: code.ID, CodeHash: code.CodeHash}
}

func (r *Registry) Code(id uint64) (*Code, error) {
	if id >= uint64(len(r.codes)) {
		return nil, errorsmod.Wrapf(ErrIDNotFound, "%d", id)
	}
	return r.codes[id], nil
}

// Address derives the address a new instance will get. The label is the
// address, an empty label falls back to a sequential one.
func (r *Registry) Address(label string) string {
	if label != "" {
		return label
	}
	return fmt.Sprintf("%scontract%d", r.prefix, r.sequence)
}

// Create adds an instance of code id. Addresses are never reused, even
// after the instance is removed by a revert.
func (r *Registry) Create(id uint64, label string, admin string) (*Instance, error) {
	code, err := r.Code(id)
	if err != nil {
		return nil, err
	}
	address := r.Address(label)
	if _, ok := r.instances[address]; ok {
		return nil, errorsmod.Wrapf(ErrDuplicateAddress, "%s", address)
	}
	r.sequence++

	instance := &Instance{
		Address:  address,
		CodeID:   code.ID,
		Label:    label,
		Admin:    admin,
		CodeHash: code.CodeHash,
		Harness:  code.Harness,
	}
	r.instances[address] = instance
	return instance, nil
}

func (r *Registry) Instance(address string) (*Instance, error) {
	instance, ok := r.instances[address]
	if !ok {
		return nil, errorsmod.Wrapf(ErrNotFound, "%s", address)
	}
	return instance, nil
}

func (r *Registry) Remove(address string) {
	delete(r.instances, address)
}

// SetCode points an instance at another code and returns the id it had.
func (r *Registry) SetCode(address string, id uint64) (uint64, error) {
	instance, err := r.Instance(address)
	if err != nil {
		return 0, err
	}
	code, err := r.Code(id)
	if err != nil {
		return 0, err
	}
	previous := instance.CodeID
	instance.CodeID = code.ID
	instance.CodeHash = code.CodeHash
	instance.Harness = code.Harness
	return previous, nil
}

func (r *Registry) Info(address string) (types.ContractInfoResponse, error) {
	instance, err := r.Instance(address)
	if err != nil {
		return types.ContractInfoResponse{}, err
	}
	return types.ContractInfoResponse{
		Address:  instance.Address,
		CodeID:   instance.CodeID,
		CodeHash: instance.CodeHash,
		Admin:    instance.Admin,
		Label:    instance.Label,
	}, nil
}
