package ensemble_test

import (
	"encoding/json"
	"testing"

	"fadroma/lib/logger"
	"fadroma/modules/contracts/counter"
	"fadroma/modules/contracts/echo"
	"fadroma/modules/ensemble"
	"fadroma/modules/ensemble/bank"
	"fadroma/modules/ensemble/registry"
	"fadroma/modules/ensemble/response"
	types "fadroma/modules/ensemble/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	*ensemble.ContractEnsemble
	counter types.ContractCode
	echo    types.ContractCode
}

func setup(t *testing.T) fixture {
	return setupWithConfig(t, ensemble.DefaultConfig())
}

func setupWithConfig(t *testing.T, cfg ensemble.Config) fixture {
	e, err := ensemble.NewWithLogger(cfg, logger.Nop())
	require.NoError(t, err)
	return fixture{
		ContractEnsemble: e,
		counter:          e.Register(counter.Counter{}),
		echo:             e.Register(echo.Echo{}),
	}
}

func (f fixture) instantiateCounter(t *testing.T, label string) {
	_, err := f.Instantiate(f.counter.ID, counter.Init(0), ensemble.NewMockEnv("user").WithLabel(label).WithAdmin("user"))
	require.NoError(t, err)
}

func (f fixture) instantiateEcho(t *testing.T, label string) {
	_, err := f.Instantiate(f.echo.ID, echo.Init(echo.DispatchMsg{}), ensemble.NewMockEnv("user").WithLabel(label))
	require.NoError(t, err)
}

func (f fixture) count(t *testing.T, address string) uint64 {
	res, err := f.Query(address, counter.GetCount())
	require.NoError(t, err)
	decoded := counter.CountResponse{}
	require.NoError(t, json.Unmarshal(res, &decoded))
	return decoded.Count
}

func (f fixture) replies(t *testing.T, address string) []echo.RecordedReply {
	res, err := f.Query(address, echo.Replies())
	require.NoError(t, err)
	decoded := []echo.RecordedReply{}
	require.NoError(t, json.Unmarshal(res, &decoded))
	return decoded
}

func exec(address string, msg []byte) types.CosmosMsg {
	return types.WasmExecute(address, "", msg, nil)
}

func kinds(events []types.Event) []string {
	res := make([]string, len(events))
	for i, e := range events {
		res[i] = e.Type + ":" + e.Attributes[0].Value
	}
	return res
}

func TestInstantiateExecuteQuery(t *testing.T) {
	f := setup(t)

	res, err := f.Instantiate(f.counter.ID, counter.Init(5), ensemble.NewMockEnv("user").WithLabel("counter"))
	require.NoError(t, err)
	assert.Equal(t, types.ContractLink{Address: "counter", CodeHash: f.counter.CodeHash}, res.Instance)
	assert.Equal(t, []string{"instantiate:counter", "wasm:counter"}, kinds(res.Events()))

	executed, err := f.Execute("counter", counter.Increment(), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, []byte("6"), executed.Data())
	assert.Equal(t, []string{"execute:counter", "wasm:counter", "wasm-counted:counter"}, kinds(executed.Events()))
	assert.Equal(t, uint64(6), f.count(t, "counter"))

	assert.Len(t, f.Events(), 5)
}

func TestSequentialAddressWithoutLabel(t *testing.T) {
	f := setup(t)
	res, err := f.Instantiate(f.counter.ID, counter.Init(0), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, "secret1contract0", res.Instance.Address)
}

func TestContractErrorIsReturnedUnchanged(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")

	_, err := f.Execute("counter", counter.IncrementAndFail(), ensemble.NewMockEnv("user"))
	assert.True(t, err == counter.ErrIntentional)
	assert.Equal(t, uint64(0), f.count(t, "counter"))
}

func TestDepthFirstOrder(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "a")
	f.instantiateEcho(t, "root")

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.SubMsgReplyOn(1, exec("a", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
			types.NewSubMsg(exec("counter", counter.Increment())),
		}})), types.ReplySuccess),
		types.NewSubMsg(exec("counter", counter.Increment())),
	}}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"execute:root",
		"execute:a",
		"execute:counter", "wasm:counter", "wasm-counted:counter",
		"reply:root", "wasm:root",
		"execute:counter", "wasm:counter", "wasm-counted:counter",
	}, kinds(response.Flatten(res)))

	assert.Equal(t, uint64(2), f.count(t, "counter"))
	assert.Equal(t, []echo.RecordedReply{{ID: 1, Ok: true, Events: 4}}, f.replies(t, "root"))
	assert.Empty(t, f.replies(t, "a"))
}

func TestFailureRevertsWholeTree(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")
	require.NoError(t, f.AddFunds("user", types.NewCoins(types.NewCoin(100, "uscrt"))))
	events := len(f.Events())

	_, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(exec("counter", counter.Increment())),
		types.NewSubMsg(types.BankSend("bob", types.NewCoins(types.NewCoin(10, "uscrt")))),
		types.NewSubMsg(exec("counter", counter.IncrementAndFail())),
	}}), ensemble.NewMockEnv("user").WithFunds(types.NewCoins(types.NewCoin(10, "uscrt"))))
	assert.True(t, err == counter.ErrIntentional)

	assert.Equal(t, uint64(0), f.count(t, "counter"))
	assert.Equal(t, "100uscrt", f.Balances("user").String())
	assert.Empty(t, f.Balances("root"))
	assert.Empty(t, f.Balances("bob"))
	assert.Len(t, f.Events(), events)
}

func TestReplyOnErrorRevertsOnlyTheFailedMessage(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.SubMsgReplyOn(5, exec("counter", counter.IncrementAndFail()), types.ReplyError),
		types.NewSubMsg(exec("counter", counter.Increment())),
	}}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)

	assert.Equal(t, uint64(1), f.count(t, "counter"))
	assert.Equal(t, []echo.RecordedReply{{ID: 5, Ok: false, Error: "intentional failure"}}, f.replies(t, "root"))
	assert.Equal(t, []string{
		"execute:root",
		"reply:root", "wasm:root",
		"execute:counter", "wasm:counter", "wasm-counted:counter",
	}, kinds(response.Flatten(res)))
}

func TestReplyOnErrorIsNotDeliveredOnSuccess(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")

	_, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.SubMsgReplyOn(5, exec("counter", counter.Increment()), types.ReplyError),
		types.SubMsgReplyOn(6, exec("counter", counter.Increment()), types.ReplyAlways),
	}}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)

	replies := f.replies(t, "root")
	require.Len(t, replies, 1)
	assert.Equal(t, uint64(6), replies[0].ID)
	assert.Equal(t, []byte("2"), replies[0].Data)
}

func TestFailingReplyRevertsCall(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")
	_, err := f.Execute("root", echo.SetReplyFailure(true), ensemble.NewMockEnv("user"))
	require.NoError(t, err)

	_, err = f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.SubMsgReplyOn(1, exec("counter", counter.Increment()), types.ReplySuccess),
	}}), ensemble.NewMockEnv("user"))
	assert.True(t, err == echo.ErrReplyFailed)
	assert.Equal(t, uint64(0), f.count(t, "counter"))
}

func TestReplyMessagesAreDispatched(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{
		Messages: []types.SubMsg{
			types.SubMsgReplyOn(1, exec("counter", counter.Increment()), types.ReplySuccess),
		},
		ReplyMessages: []types.SubMsg{
			types.NewSubMsg(exec("counter", counter.Increment())),
		},
	}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), f.count(t, "counter"))

	reply := res.Children()[0].Children()[0]
	assert.Equal(t, "reply 1 to root (ok)", reply.String())
	assert.Len(t, reply.Children(), 1)
}

func TestInstantiateFromSubMessage(t *testing.T) {
	f := setup(t)
	f.instantiateEcho(t, "root")

	_, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.SubMsgReplyOn(3, types.WasmInstantiate(f.counter.ID, f.counter.CodeHash, counter.Init(7), nil, "child"), types.ReplySuccess),
	}}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), f.count(t, "child"))

	replies := f.replies(t, "root")
	require.Len(t, replies, 1)
	assert.JSONEq(t, `{"contract_address":"child"}`, string(replies[0].Data))
}

func TestFunds(t *testing.T) {
	f := setup(t)
	f.instantiateEcho(t, "root")
	require.NoError(t, f.AddFunds("user", types.NewCoins(types.NewCoin(100, "uscrt"))))

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(types.BankSend("bob", types.NewCoins(types.NewCoin(60, "uscrt")))),
	}}), ensemble.NewMockEnv("user").WithFunds(types.NewCoins(types.NewCoin(60, "uscrt"))))
	require.NoError(t, err)
	assert.Equal(t, []string{"transfer:root", "execute:root", "transfer:bob"}, kinds(response.Flatten(res)))
	assert.Equal(t, "40uscrt", f.Balances("user").String())
	assert.Empty(t, f.Balances("root"))
	assert.Equal(t, "60uscrt", f.Balances("bob").String())

	// one more than the contract holds
	_, err = f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(types.BankSend("bob", types.NewCoins(types.NewCoin(41, "uscrt")))),
	}}), ensemble.NewMockEnv("user").WithFunds(types.NewCoins(types.NewCoin(40, "uscrt"))))
	assert.ErrorIs(t, err, bank.ErrInsufficientFunds)
	assert.Equal(t, "40uscrt", f.Balances("user").String())
	assert.Empty(t, f.Balances("root"))

	// exactly what it holds
	_, err = f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(types.BankSend("bob", types.NewCoins(types.NewCoin(40, "uscrt")))),
	}}), ensemble.NewMockEnv("user").WithFunds(types.NewCoins(types.NewCoin(40, "uscrt"))))
	require.NoError(t, err)
	userCoin := f.Balance("user", "uscrt")
	bobCoin := f.Balance("bob", "uscrt")
	assert.Equal(t, uint64(0), userCoin.Amount.Uint64())
	assert.Equal(t, uint64(100), bobCoin.Amount.Uint64())

	_, err = f.Execute("root", echo.Dispatch(echo.DispatchMsg{}), ensemble.NewMockEnv("user").WithFunds(types.NewCoins(types.NewCoin(1, "uscrt"))))
	assert.ErrorIs(t, err, bank.ErrInsufficientFunds)
}

func TestBurn(t *testing.T) {
	f := setup(t)
	f.instantiateEcho(t, "root")
	require.NoError(t, f.AddFunds("root", types.NewCoins(types.NewCoin(10, "uscrt"))))

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(types.BankBurn(types.NewCoins(types.NewCoin(4, "uscrt")))),
	}}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"execute:root", "burn:root"}, kinds(response.Flatten(res)))
	assert.Equal(t, "6uscrt", f.Balances("root").String())

	require.NoError(t, f.RemoveFunds("root", types.NewCoins(types.NewCoin(6, "uscrt"))))
	assert.ErrorIs(t, f.RemoveFunds("nobody", types.NewCoins(types.NewCoin(1, "uscrt"))), bank.ErrAccountNotFound)
}

func TestRegistryErrors(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")

	_, err := f.Execute("missing", counter.Increment(), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, registry.ErrNotFound)

	_, err = f.Query("missing", counter.GetCount())
	assert.ErrorIs(t, err, registry.ErrNotFound)

	_, err = f.Instantiate(f.counter.ID, counter.Init(0), ensemble.NewMockEnv("user").WithLabel("counter"))
	assert.ErrorIs(t, err, registry.ErrDuplicateAddress)

	_, err = f.Instantiate(99, counter.Init(0), ensemble.NewMockEnv("user").WithLabel("other"))
	assert.ErrorIs(t, err, registry.ErrIDNotFound)

	_, err = f.Execute("counter", counter.Increment(), ensemble.NewMockEnv("user").WithCodeHash(f.echo.CodeHash))
	assert.ErrorIs(t, err, registry.ErrInvalidCodeHash)

	_, err = f.Instantiate(f.counter.ID, counter.Init(0), ensemble.NewMockEnv("user").WithLabel("other").WithCodeHash(f.echo.CodeHash))
	assert.ErrorIs(t, err, registry.ErrInvalidCodeHash)

	_, err = f.Execute("counter", counter.Increment(), ensemble.NewMockEnv("user").WithCodeHash(f.counter.CodeHash))
	assert.NoError(t, err)
}

func TestFailedInstantiateLeavesNoInstance(t *testing.T) {
	f := setup(t)
	_, err := f.Instantiate(f.counter.ID, []byte("not json"), ensemble.NewMockEnv("user").WithLabel("broken"))
	assert.Error(t, err)

	_, err = f.ContractInfo("broken")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestMigrate(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "echo")
	v2 := f.Register(counter.Counter{})

	_, err := f.Migrate("counter", v2.ID, []byte(`{"count":42}`), ensemble.NewMockEnv("mallory"))
	assert.ErrorIs(t, err, ensemble.ErrUnauthorized)

	_, err = f.Migrate("counter", f.echo.ID, []byte(`{}`), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, ensemble.ErrMigrateUnsupported)

	_, err = f.Migrate("echo", v2.ID, []byte(`{}`), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, ensemble.ErrUnauthorized)

	res, err := f.Migrate("counter", v2.ID, []byte(`{"count":42}`), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"migrate:counter", "wasm:counter"}, kinds(res.Events()))
	assert.Equal(t, uint64(42), f.count(t, "counter"))

	info, err := f.ContractInfo("counter")
	require.NoError(t, err)
	assert.Equal(t, v2.ID, info.CodeID)
	assert.Equal(t, v2.CodeHash, info.CodeHash)

	// a failed migrate keeps the old code
	_, err = f.Migrate("counter", f.counter.ID, []byte(`not json`), ensemble.NewMockEnv("user"))
	assert.Error(t, err)
	info, _ = f.ContractInfo("counter")
	assert.Equal(t, v2.ID, info.CodeID)
}

func TestQuerier(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")
	require.NoError(t, f.AddFunds("root", types.NewCoins(types.NewCoin(5, "uscrt"))))
	_, err := f.Execute("counter", counter.Increment(), ensemble.NewMockEnv("user"))
	require.NoError(t, err)

	res, err := f.Execute("root", echo.QueryCount("counter"), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1}`, string(res.Data()))

	balance, err := f.Query("root", echo.Balance("uscrt"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"denom":"uscrt","amount":"5"}`, string(balance))

	_, err = f.Execute("root", echo.QueryCount("missing"), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestAttributeValidation(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")
	f.instantiateEcho(t, "root")

	_, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{
		Messages:   []types.SubMsg{types.NewSubMsg(exec("counter", counter.Increment()))},
		Attributes: []types.Attribute{{Key: "_contract_address", Value: "spoofed"}},
	}), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, response.ErrReservedAttributeKey)
	assert.Equal(t, uint64(0), f.count(t, "counter"))

	_, err = f.Execute("root", echo.Dispatch(echo.DispatchMsg{
		Events: []types.Event{types.NewEvent("x").AddAttribute("k", "v")},
	}), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, response.ErrEventTypeTooShort)

	res, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{}), ensemble.NewMockEnv("user"))
	require.NoError(t, err)
	assert.Equal(t, []string{"execute:root"}, kinds(res.Events()))
}

func TestUnsupportedMessage(t *testing.T) {
	f := setup(t)
	f.instantiateEcho(t, "root")

	_, err := f.Execute("root", echo.Dispatch(echo.DispatchMsg{Messages: []types.SubMsg{
		types.NewSubMsg(types.CosmosMsg{Custom: []byte(`{"delegate":{}}`)}),
	}}), ensemble.NewMockEnv("user"))
	assert.ErrorIs(t, err, ensemble.ErrUnsupportedMessage)
}

func TestBlocks(t *testing.T) {
	f := setup(t)
	block := f.Block()
	assert.Equal(t, uint64(1), block.Height)
	assert.Equal(t, uint64(1_600_000_000*1_000_000_000), block.Time)
	assert.Equal(t, "fadroma-ensemble-testnet", block.ChainID)

	next := f.NextBlock(2)
	assert.Equal(t, uint64(3), next.Height)
	assert.Equal(t, block.Time+12*1_000_000_000, next.Time)
}

func TestAutoIncrementBlock(t *testing.T) {
	cfg := ensemble.DefaultConfig()
	cfg.AutoIncrementBlock = true
	f := setupWithConfig(t, cfg)

	f.instantiateCounter(t, "counter")
	assert.Equal(t, uint64(2), f.Block().Height)

	_, err := f.Execute("counter", counter.IncrementAndFail(), ensemble.NewMockEnv("user"))
	assert.Error(t, err)
	assert.Equal(t, uint64(2), f.Block().Height)
}

func TestContractStorage(t *testing.T) {
	f := setup(t)
	f.instantiateCounter(t, "counter")

	require.NoError(t, f.ContractStorage("counter", func(s types.Storage) {
		assert.Equal(t, []byte("0"), s.Get([]byte("count")))
		s.Set([]byte("count"), []byte("41"))
	}))
	assert.Equal(t, uint64(41), f.count(t, "counter"))

	assert.ErrorIs(t, f.ContractStorage("missing", func(types.Storage) {}), registry.ErrNotFound)
}

func TestInvalidConfig(t *testing.T) {
	cfg := ensemble.DefaultConfig()
	cfg.BlockTime = 0
	_, err := ensemble.NewWithLogger(cfg, logger.Nop())
	assert.ErrorIs(t, err, ensemble.ErrInvalidConfig)

	cfg = ensemble.DefaultConfig()
	cfg.ChainID = ""
	assert.Error(t, cfg.Validate())
}
