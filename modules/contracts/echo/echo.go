package echo

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	types "fadroma/modules/ensemble/types"
)

var (
	ErrFailed         = fmt.Errorf("echo failure")
	ErrReplyFailed    = fmt.Errorf("echo reply failure")
	ErrUnknownMessage = fmt.Errorf("unknown message")
)

var (
	replyPrefix      = []byte("reply/")
	replyEnd         = []byte("reply0")
	replyFailureKey  = []byte("reply_failure")
	replyMessagesKey = []byte("reply_messages")
)

// DispatchMsg is echoed back as the contract's response. ReplyMessages are
// sent from the next reply the contract receives.
type DispatchMsg struct {
	Messages      []types.SubMsg    `json:"messages,omitempty"`
	Attributes    []types.Attribute `json:"attributes,omitempty"`
	Events        []types.Event     `json:"events,omitempty"`
	Data          []byte            `json:"data,omitempty"`
	ReplyMessages []types.SubMsg    `json:"reply_messages,omitempty"`
}

type ExecuteMsg struct {
	Dispatch        *DispatchMsg        `json:"dispatch,omitempty"`
	Fail            *FailMsg            `json:"fail,omitempty"`
	QueryCount      *QueryCountMsg      `json:"query_count,omitempty"`
	SetReplyFailure *SetReplyFailureMsg `json:"set_reply_failure,omitempty"`
}

type FailMsg struct {
	Error string `json:"error"`
}

type QueryCountMsg struct {
	Contract string `json:"contract"`
}

type SetReplyFailureMsg struct {
	Fail bool `json:"fail"`
}

type QueryMsg struct {
	Replies *struct{}        `json:"replies,omitempty"`
	Balance *BalanceQueryMsg `json:"balance,omitempty"`
}

type BalanceQueryMsg struct {
	Denom string `json:"denom"`
}

// RecordedReply is what the contract stores for every reply it receives.
type RecordedReply struct {
	ID     uint64 `json:"id"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Data   []byte `json:"data,omitempty"`
	Events int    `json:"events"`
}

// Echo sends whatever it is told to send and records the replies it gets.
type Echo struct{}

var _ types.ContractHarness = Echo{}

func (Echo) Instantiate(deps types.Deps, env types.Env, info types.MessageInfo, msg []byte) (types.ContractResponse, error) {
	dispatch := DispatchMsg{}
	if err := json.Unmarshal(msg, &dispatch); err != nil {
		return types.ContractResponse{}, err
	}
	return respond(deps.Storage, dispatch)
}

func (Echo) Execute(deps types.Deps, env types.Env, info types.MessageInfo, msg []byte) (types.ContractResponse, error) {
	exec := ExecuteMsg{}
	if err := json.Unmarshal(msg, &exec); err != nil {
		return types.ContractResponse{}, err
	}

	switch {
	case exec.Dispatch != nil:
		return respond(deps.Storage, *exec.Dispatch)
	case exec.Fail != nil:
		return types.ContractResponse{}, fmt.Errorf("%w: %s", ErrFailed, exec.Fail.Error)
	case exec.QueryCount != nil:
		res, err := deps.Querier.QueryWasmSmart(exec.QueryCount.Contract, []byte(`{"get_count":{}}`))
		if err != nil {
			return types.ContractResponse{}, err
		}
		return types.NewResponse().SetData(res), nil
	case exec.SetReplyFailure != nil:
		if exec.SetReplyFailure.Fail {
			deps.Storage.Set(replyFailureKey, []byte{1})
		} else {
			deps.Storage.Remove(replyFailureKey)
		}
		return types.NewResponse(), nil
	}
	return types.ContractResponse{}, ErrUnknownMessage
}

func (Echo) Query(deps types.QueryDeps, env types.Env, msg []byte) ([]byte, error) {
	query := QueryMsg{}
	if err := json.Unmarshal(msg, &query); err != nil {
		return nil, err
	}

	switch {
	case query.Replies != nil:
		return json.Marshal(replies(deps.Storage))
	case query.Balance != nil:
		return json.Marshal(deps.Querier.QueryBalance(env.Contract.Address, query.Balance.Denom))
	}
	return nil, ErrUnknownMessage
}

func (Echo) Reply(deps types.Deps, env types.Env, reply types.Reply) (types.ContractResponse, error) {
	if deps.Storage.Get(replyFailureKey) != nil {
		return types.ContractResponse{}, ErrReplyFailed
	}

	recorded := RecordedReply{ID: reply.ID, Ok: reply.Result.IsOk()}
	if reply.Result.IsOk() {
		res := reply.Result.Unwrap()
		recorded.Data = res.Data
		recorded.Events = len(res.Events)
	} else {
		recorded.Error = reply.Result.UnwrapErr().Error()
	}
	value, err := json.Marshal(recorded)
	if err != nil {
		return types.ContractResponse{}, err
	}
	seq := uint64(len(replies(deps.Storage)))
	deps.Storage.Set(binary.BigEndian.AppendUint64(append([]byte{}, replyPrefix...), seq), value)

	res := types.NewResponse().AddAttribute("reply_id", fmt.Sprint(reply.ID))
	if pending := deps.Storage.Get(replyMessagesKey); pending != nil {
		deps.Storage.Remove(replyMessagesKey)
		msgs := []types.SubMsg{}
		if err := json.Unmarshal(pending, &msgs); err != nil {
			return types.ContractResponse{}, err
		}
		for _, msg := range msgs {
			res = res.AddSubMessage(msg)
		}
	}
	return res, nil
}

func respond(storage types.Storage, dispatch DispatchMsg) (types.ContractResponse, error) {
	if len(dispatch.ReplyMessages) > 0 {
		pending, err := json.Marshal(dispatch.ReplyMessages)
		if err != nil {
			return types.ContractResponse{}, err
		}
		storage.Set(replyMessagesKey, pending)
	}
	return types.ContractResponse{
		Messages:   dispatch.Messages,
		Attributes: dispatch.Attributes,
		Events:     dispatch.Events,
		Data:       dispatch.Data,
	}, nil
}

func replies(storage types.ReadonlyStorage) []RecordedReply {
	records := storage.Range(replyPrefix, replyEnd, types.Ascending)
	res := make([]RecordedReply, 0, len(records))
	for _, record := range records {
		recorded := RecordedReply{}
		if err := json.Unmarshal(record.Value, &recorded); err == nil {
			res = append(res, recorded)
		}
	}
	return res
}

func mustJson(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func Dispatch(msg DispatchMsg) []byte {
	return mustJson(ExecuteMsg{Dispatch: &msg})
}

func Init(msg DispatchMsg) []byte {
	return mustJson(msg)
}

func Fail(reason string) []byte {
	return mustJson(ExecuteMsg{Fail: &FailMsg{Error: reason}})
}

func QueryCount(contract string) []byte {
	return mustJson(ExecuteMsg{QueryCount: &QueryCountMsg{Contract: contract}})
}

func SetReplyFailure(fail bool) []byte {
	return mustJson(ExecuteMsg{SetReplyFailure: &SetReplyFailureMsg{Fail: fail}})
}

func Replies() []byte {
	return mustJson(QueryMsg{Replies: &struct{}{}})
}

func Balance(denom string) []byte {
	return mustJson(QueryMsg{Balance: &BalanceQueryMsg{Denom: denom}})
}
