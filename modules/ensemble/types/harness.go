package ensemble_types

//go:generate mockgen -destination=harness_mocks.go -package=ensemble_types fadroma/modules/ensemble/types ContractHarness,MigrateHarness

type Order int

const (
	Ascending Order = iota
	Descending
)

type Record struct {
	Key   []byte
	Value []byte
}

type ReadonlyStorage interface {
	// Get returns nil when the key is not set
	Get(key []byte) []byte
	// Range returns the records with start <= key < end. A nil bound is open.
	Range(start []byte, end []byte, order Order) []Record
}

type Storage interface {
	ReadonlyStorage
	Set(key []byte, value []byte)
	Remove(key []byte)
}

// Querier gives a contract read access to the rest of the chain.
type Querier interface {
	QueryWasmSmart(contractAddr string, msg []byte) ([]byte, error)
	QueryBalance(address string, denom string) Coin
	QueryAllBalances(address string) Coins
	QueryContractInfo(contractAddr string) (ContractInfoResponse, error)
}

type Deps struct {
	Storage Storage
	Querier Querier
}

type QueryDeps struct {
	Storage ReadonlyStorage
	Querier Querier
}

// ContractHarness is the in process implementation of a contract. Errors
// returned from the entry points are handed back to the caller of the
// ensemble unchanged.
type ContractHarness interface {
	Instantiate(deps Deps, env Env, info MessageInfo, msg []byte) (ContractResponse, error)
	Execute(deps Deps, env Env, info MessageInfo, msg []byte) (ContractResponse, error)
	Query(deps QueryDeps, env Env, msg []byte) ([]byte, error)
	Reply(deps Deps, env Env, reply Reply) (ContractResponse, error)
}

// MigrateHarness is implemented by harnesses that can be migrated to.
type MigrateHarness interface {
	Migrate(deps Deps, env Env, msg []byte) (ContractResponse, error)
}
