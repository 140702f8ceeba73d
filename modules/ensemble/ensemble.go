package ensemble

import (
	"context"
	"sync"

	"github.com/ipfs/go-datastore"
	dssync "github.com/ipfs/go-datastore/sync"
	"github.com/moznion/go-optional"

	errorsmod "cosmossdk.io/errors"

	"fadroma/lib/logger"
	"fadroma/modules/ensemble/bank"
	"fadroma/modules/ensemble/execution"
	"fadroma/modules/ensemble/registry"
	"fadroma/modules/ensemble/response"
	"fadroma/modules/ensemble/state"
	types "fadroma/modules/ensemble/types"
)

// ContractEnsemble runs in process contract harnesses against an emulated
// chain. Every top level call is atomic: it either commits everything the
// resulting tree of sub messages did or none of it.
type ContractEnsemble struct {
	mtx sync.Mutex

	config   Config
	log      logger.Logger
	bank     *bank.Bank
	registry *registry.Registry
	state    *state.State
	querier  *querier
	block    *types.BlockInfo
	scopeID  uint64
	events   []types.Event
}

func New(cfg Config) (*ContractEnsemble, error) {
	logger.SetLevel(cfg.LogLevel)
	return NewWithLogger(cfg, logger.New("ensemble"))
}

func NewWithLogger(cfg Config, log logger.Logger) (*ContractEnsemble, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errorsmod.Wrap(ErrInvalidConfig, err.Error())
	}

	b := bank.New()
	r := registry.New(cfg.AddressPrefix)
	backend := dssync.MutexWrap(datastore.NewMapDatastore())
	s := state.New(context.Background(), backend, b, r, log)
	block := &types.BlockInfo{
		Height:  cfg.StartHeight,
		Time:    cfg.StartTime * 1_000_000_000,
		ChainID: cfg.ChainID,
	}

	return &ContractEnsemble{
		config:   cfg,
		log:      log,
		bank:     b,
		registry: r,
		state:    s,
		querier:  newQuerier(r, b, s, block),
		block:    block,
		events:   make([]types.Event, 0),
	}, nil
}

// Register adds a harness and returns its code id and hash.
func (e *ContractEnsemble) Register(harness types.ContractHarness) types.ContractCode {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	code := e.registry.Register(harness)
	e.log.Debug("registered code", code.ID, code.CodeHash)
	return code
}

func (e *ContractEnsemble) Instantiate(codeID uint64, msg []byte, env MockEnv) (*response.InstantiateResponse, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return runAs[*response.InstantiateResponse](e, types.CosmosMsg{Wasm: &types.WasmMsg{Instantiate: &types.InstantiateMsg{
		CodeID:   codeID,
		CodeHash: env.CodeHash,
		Msg:      msg,
		Funds:    env.Funds,
		Label:    env.Label,
		Admin:    env.Admin,
	}}}, env.Sender)
}

func (e *ContractEnsemble) Execute(address string, msg []byte, env MockEnv) (*response.ExecuteResponse, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return runAs[*response.ExecuteResponse](e, types.WasmExecute(address, env.CodeHash, msg, env.Funds), env.Sender)
}

// Migrate switches address to newCodeID. Only the admin set at
// instantiation may migrate.
func (e *ContractEnsemble) Migrate(address string, newCodeID uint64, msg []byte, env MockEnv) (*response.MigrateResponse, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return runAs[*response.MigrateResponse](e, types.WasmMigrate(address, newCodeID, msg), env.Sender)
}

func (e *ContractEnsemble) Query(address string, msg []byte) ([]byte, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.querier.QueryWasmSmart(address, msg)
}

func (e *ContractEnsemble) AddFunds(address string, coins types.Coins) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.bank.AddFunds(address, coins)
}

func (e *ContractEnsemble) RemoveFunds(address string, coins types.Coins) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.bank.RemoveFunds(address, coins)
}

func (e *ContractEnsemble) Balances(address string) types.Coins {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.bank.QueryBalances(address, optional.None[string]())
}

func (e *ContractEnsemble) Balance(address string, denom string) types.Coin {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.bank.QueryBalances(address, optional.Some(denom))[0]
}

func (e *ContractEnsemble) ContractInfo(address string) (types.ContractInfoResponse, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return e.registry.Info(address)
}

// ContractStorage gives fn direct access to a contract's storage. Writes
// are applied immediately.
func (e *ContractEnsemble) ContractStorage(address string, fn func(types.Storage)) error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if _, err := e.registry.Instance(address); err != nil {
		return err
	}
	fn(e.state.Storage(address))
	return nil
}

func (e *ContractEnsemble) Block() types.BlockInfo {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	return *e.block
}

func (e *ContractEnsemble) NextBlock(blocks uint64) types.BlockInfo {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	e.nextBlock(blocks)
	return *e.block
}

func (e *ContractEnsemble) nextBlock(blocks uint64) {
	e.block.Height += blocks
	e.block.Time += blocks * e.config.BlockTime * 1_000_000_000
}

// Events returns every event emitted by committed calls, oldest first.
func (e *ContractEnsemble) Events() []types.Event {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	res := make([]types.Event, len(e.events))
	copy(res, e.events)
	return res
}

func runAs[T response.Response](e *ContractEnsemble, msg types.CosmosMsg, sender string) (T, error) {
	var zero T
	res, err := e.run(types.NewSubMsg(msg), sender)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, errorsmod.Wrapf(ErrUnexpectedResponse, "%T", res)
	}
	return typed, nil
}

// run drives one top level call to completion, committing on success and
// reverting every scope opened since it began otherwise, a panicking
// harness included.
func (e *ContractEnsemble) run(root types.SubMsg, sender string) (response.Response, error) {
	committed := false
	defer func() {
		if !committed {
			e.revert()
		}
	}()

	st := execution.New(root, sender, e.state)
	for {
		call, err := st.Next().Take()
		if err != nil {
			break
		}
		if err := st.ProcessResult(e.handle(call)); err != nil {
			return nil, e.abort(err)
		}
	}

	res, err := st.Finalize()
	if err != nil {
		return nil, e.abort(err)
	}

	e.state.Commit()
	committed = true
	e.events = append(e.events, response.Flatten(res)...)
	if e.config.AutoIncrementBlock {
		e.nextBlock(1)
	}
	e.log.Debug("committed", res.String())
	return res, nil
}

func (e *ContractEnsemble) abort(err error) error {
	e.log.Debug("aborting", err)
	return contractError(err)
}

func (e *ContractEnsemble) revert() {
	if err := e.state.Revert(); err != nil {
		e.log.Error("revert failed", err)
	}
}
