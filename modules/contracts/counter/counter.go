package counter

import (
	"encoding/json"
	"fmt"
	"strconv"

	types "fadroma/modules/ensemble/types"
)

var (
	ErrIntentional     = fmt.Errorf("intentional failure")
	ErrUnauthorized    = fmt.Errorf("only the owner can reset")
	ErrUnknownMessage  = fmt.Errorf("unknown message")
	ErrUnexpectedReply = fmt.Errorf("counter does not send sub messages")
)

var (
	countKey = []byte("count")
	ownerKey = []byte("owner")
)

type InstantiateMsg struct {
	Count uint64 `json:"count"`
}

type ExecuteMsg struct {
	Increment        *struct{} `json:"increment,omitempty"`
	IncrementAndFail *struct{} `json:"increment_and_fail,omitempty"`
	Reset            *ResetMsg `json:"reset,omitempty"`
}

type ResetMsg struct {
	Count uint64 `json:"count"`
}

type QueryMsg struct {
	GetCount *struct{} `json:"get_count,omitempty"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

type MigrateMsg struct {
	Count uint64 `json:"count"`
}

// Counter keeps a single number that can be incremented by anyone and
// reset by the account that instantiated it.
type Counter struct{}

var _ types.ContractHarness = Counter{}
var _ types.MigrateHarness = Counter{}

func (Counter) Instantiate(deps types.Deps, env types.Env, info types.MessageInfo, msg []byte) (types.ContractResponse, error) {
	initMsg := InstantiateMsg{}
	if err := json.Unmarshal(msg, &initMsg); err != nil {
		return types.ContractResponse{}, err
	}
	setCount(deps.Storage, initMsg.Count)
	deps.Storage.Set(ownerKey, []byte(info.Sender))
	return types.NewResponse().
		AddAttribute("action", "instantiate").
		AddAttribute("count", strconv.FormatUint(initMsg.Count, 10)), nil
}

func (Counter) Execute(deps types.Deps, env types.Env, info types.MessageInfo, msg []byte) (types.ContractResponse, error) {
	exec := ExecuteMsg{}
	if err := json.Unmarshal(msg, &exec); err != nil {
		return types.ContractResponse{}, err
	}

	switch {
	case exec.Increment != nil:
		count := increment(deps.Storage)
		return types.NewResponse().
			AddAttribute("action", "increment").
			AddEvent(types.NewEvent("counted").AddAttribute("count", strconv.FormatUint(count, 10))).
			SetData([]byte(strconv.FormatUint(count, 10))), nil
	case exec.IncrementAndFail != nil:
		increment(deps.Storage)
		return types.ContractResponse{}, ErrIntentional
	case exec.Reset != nil:
		if string(deps.Storage.Get(ownerKey)) != info.Sender {
			return types.ContractResponse{}, ErrUnauthorized
		}
		setCount(deps.Storage, exec.Reset.Count)
		return types.NewResponse().AddAttribute("action", "reset"), nil
	}
	return types.ContractResponse{}, ErrUnknownMessage
}

func (Counter) Query(deps types.QueryDeps, env types.Env, msg []byte) ([]byte, error) {
	query := QueryMsg{}
	if err := json.Unmarshal(msg, &query); err != nil {
		return nil, err
	}
	if query.GetCount == nil {
		return nil, ErrUnknownMessage
	}
	return json.Marshal(CountResponse{Count: getCount(deps.Storage)})
}

func (Counter) Reply(deps types.Deps, env types.Env, reply types.Reply) (types.ContractResponse, error) {
	return types.ContractResponse{}, ErrUnexpectedReply
}

func (Counter) Migrate(deps types.Deps, env types.Env, msg []byte) (types.ContractResponse, error) {
	migrate := MigrateMsg{}
	if err := json.Unmarshal(msg, &migrate); err != nil {
		return types.ContractResponse{}, err
	}
	setCount(deps.Storage, migrate.Count)
	return types.NewResponse().AddAttribute("action", "migrate"), nil
}

func getCount(storage types.ReadonlyStorage) uint64 {
	count, err := strconv.ParseUint(string(storage.Get(countKey)), 10, 64)
	if err != nil {
		return 0
	}
	return count
}

func setCount(storage types.Storage, count uint64) {
	storage.Set(countKey, []byte(strconv.FormatUint(count, 10)))
}

func increment(storage types.Storage) uint64 {
	count := getCount(storage) + 1
	setCount(storage, count)
	return count
}

func mustJson(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func Init(count uint64) []byte {
	return mustJson(InstantiateMsg{Count: count})
}

func Increment() []byte {
	return mustJson(ExecuteMsg{Increment: &struct{}{}})
}

func IncrementAndFail() []byte {
	return mustJson(ExecuteMsg{IncrementAndFail: &struct{}{}})
}

func Reset(count uint64) []byte {
	return mustJson(ExecuteMsg{Reset: &ResetMsg{Count: count}})
}

func GetCount() []byte {
	return mustJson(QueryMsg{GetCount: &struct{}{}})
}
