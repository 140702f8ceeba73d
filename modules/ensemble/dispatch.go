package ensemble

import (
	"github.com/JustinKnueppel/go-result"

	errorsmod "cosmossdk.io/errors"

	"fadroma/modules/ensemble/execution"
	"fadroma/modules/ensemble/registry"
	"fadroma/modules/ensemble/response"
	types "fadroma/modules/ensemble/types"
)

func resultWrap[T any](res T, err error) result.Result[T] {
	if err != nil {
		return result.Err[T](err)
	}
	return result.Ok(res)
}

// handle runs one unit of work in a fresh scope.
func (e *ContractEnsemble) handle(call execution.MessageType) result.Result[response.Response] {
	e.scopeID++
	e.state.PushScope(e.scopeID)

	switch c := call.(type) {
	case execution.SubMsgCall:
		return resultWrap(e.dispatch(c.Msg, c.Sender))
	case execution.ReplyCall:
		return resultWrap(e.reply(c))
	}
	return result.Err[response.Response](errorsmod.Wrapf(ErrUnsupportedMessage, "%T", call))
}

func (e *ContractEnsemble) dispatch(msg types.SubMsg, sender string) (response.Response, error) {
	e.log.Debug("dispatch", msg.ID, "from", sender, "reply on", msg.ReplyOn)

	if wasm := msg.Msg.Wasm; wasm != nil {
		switch {
		case wasm.Execute != nil:
			return e.execute(sender, *wasm.Execute)
		case wasm.Instantiate != nil:
			return e.instantiate(sender, *wasm.Instantiate)
		case wasm.Migrate != nil:
			return e.migrate(sender, *wasm.Migrate)
		}
	}
	if bank := msg.Msg.Bank; bank != nil {
		switch {
		case bank.Send != nil:
			if err := e.state.Transfer(sender, bank.Send.ToAddress, bank.Send.Amount); err != nil {
				return nil, err
			}
			return response.NewBankResponse(sender, bank.Send.ToAddress, bank.Send.Amount), nil
		case bank.Burn != nil:
			if err := e.state.RemoveFunds(sender, bank.Burn.Amount); err != nil {
				return nil, err
			}
			return response.NewBurnResponse(sender, bank.Burn.Amount), nil
		}
	}
	return nil, errorsmod.Wrapf(ErrUnsupportedMessage, "sub message %d from %s", msg.ID, sender)
}

func (e *ContractEnsemble) execute(sender string, msg types.ExecuteMsg) (response.Response, error) {
	instance, err := e.registry.Instance(msg.ContractAddr)
	if err != nil {
		return nil, err
	}
	if err := instance.CheckCodeHash(msg.CodeHash); err != nil {
		return nil, err
	}
	if err := e.sendFunds(sender, instance.Address, msg.Funds); err != nil {
		return nil, err
	}

	info := types.MessageInfo{Sender: sender, Funds: msg.Funds}
	res, err := instance.Harness.Execute(e.deps(instance.Address), e.env(instance), info, msg.Msg)
	if err != nil {
		return nil, &types.ContractError{Address: instance.Address, Err: err}
	}
	return response.NewExecuteResponse(sender, instance.Address, msg.Funds, res)
}

func (e *ContractEnsemble) instantiate(sender string, msg types.InstantiateMsg) (response.Response, error) {
	code, err := e.registry.Code(msg.CodeID)
	if err != nil {
		return nil, err
	}
	if msg.CodeHash != "" && msg.CodeHash != code.CodeHash {
		return nil, errorsmod.Wrapf(registry.ErrInvalidCodeHash, "code %d has %s, got %s", code.ID, code.CodeHash, msg.CodeHash)
	}
	instance, err := e.state.CreateInstance(code.ID, msg.Label, msg.Admin)
	if err != nil {
		return nil, err
	}
	if err := e.sendFunds(sender, instance.Address, msg.Funds); err != nil {
		return nil, err
	}

	info := types.MessageInfo{Sender: sender, Funds: msg.Funds}
	res, err := instance.Harness.Instantiate(e.deps(instance.Address), e.env(instance), info, msg.Msg)
	if err != nil {
		return nil, &types.ContractError{Address: instance.Address, Err: err}
	}
	return response.NewInstantiateResponse(sender, code.ID, instance.Link(), msg.Funds, res)
}

func (e *ContractEnsemble) migrate(sender string, msg types.MigrateMsg) (response.Response, error) {
	instance, err := e.registry.Instance(msg.ContractAddr)
	if err != nil {
		return nil, err
	}
	if instance.Admin == "" || instance.Admin != sender {
		return nil, errorsmod.Wrapf(ErrUnauthorized, "%s is not the admin of %s", sender, instance.Address)
	}
	code, err := e.registry.Code(msg.NewCodeID)
	if err != nil {
		return nil, err
	}
	migrator, ok := code.Harness.(types.MigrateHarness)
	if !ok {
		return nil, errorsmod.Wrapf(ErrMigrateUnsupported, "code %d", code.ID)
	}
	if err := e.state.SetCode(instance.Address, code.ID); err != nil {
		return nil, err
	}

	res, err := migrator.Migrate(e.deps(instance.Address), e.env(instance), msg.Msg)
	if err != nil {
		return nil, &types.ContractError{Address: instance.Address, Err: err}
	}
	return response.NewMigrateResponse(sender, instance.Address, code.ID, res)
}

func (e *ContractEnsemble) reply(call execution.ReplyCall) (response.Response, error) {
	e.log.Debug("reply", call.Reply.ID, "to", call.Target, "ok", call.Reply.Result.IsOk())

	instance, err := e.registry.Instance(call.Target)
	if err != nil {
		return nil, err
	}
	res, err := instance.Harness.Reply(e.deps(instance.Address), e.env(instance), call.Reply)
	if err != nil {
		return nil, &types.ContractError{Address: instance.Address, Err: err}
	}
	return response.NewReplyResponse(instance.Address, call.Reply, res)
}

func (e *ContractEnsemble) sendFunds(sender string, recipient string, funds types.Coins) error {
	if funds.IsZero() {
		return nil
	}
	return e.state.Transfer(sender, recipient, funds)
}

func (e *ContractEnsemble) env(instance *registry.Instance) types.Env {
	return types.Env{
		Block: *e.block,
		Contract: types.ContractInfo{
			Address:  instance.Address,
			CodeHash: instance.CodeHash,
		},
	}
}

func (e *ContractEnsemble) deps(address string) types.Deps {
	return types.Deps{
		Storage: e.state.Storage(address),
		Querier: e.querier,
	}
}
