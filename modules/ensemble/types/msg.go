package ensemble_types

// ReplyOn tells the ensemble when the sender of a sub message wants its
// reply entry point called.
type ReplyOn string

const (
	ReplyNever   ReplyOn = "never"
	ReplySuccess ReplyOn = "success"
	ReplyError   ReplyOn = "error"
	ReplyAlways  ReplyOn = "always"
)

func (r ReplyOn) OnSuccess() bool {
	return r == ReplySuccess || r == ReplyAlways
}

func (r ReplyOn) OnError() bool {
	return r == ReplyError || r == ReplyAlways
}

// SubMsg is a message emitted by a contract together with its reply policy.
// ID is chosen by the sending contract and handed back in the Reply.
type SubMsg struct {
	ID      uint64    `json:"id"`
	Msg     CosmosMsg `json:"msg"`
	ReplyOn ReplyOn   `json:"reply_on"`
}

func NewSubMsg(msg CosmosMsg) SubMsg {
	return SubMsg{Msg: msg, ReplyOn: ReplyNever}
}

func SubMsgReplyOn(id uint64, msg CosmosMsg, replyOn ReplyOn) SubMsg {
	return SubMsg{ID: id, Msg: msg, ReplyOn: replyOn}
}

// CosmosMsg is a tagged union, exactly one field is expected to be set.
// Custom holds anything the ensemble doesn't emulate (staking,
// distribution, ...) and is rejected at dispatch.
type CosmosMsg struct {
	Wasm   *WasmMsg `json:"wasm,omitempty"`
	Bank   *BankMsg `json:"bank,omitempty"`
	Custom []byte   `json:"custom,omitempty"`
}

type WasmMsg struct {
	Execute     *ExecuteMsg     `json:"execute,omitempty"`
	Instantiate *InstantiateMsg `json:"instantiate,omitempty"`
	Migrate     *MigrateMsg     `json:"migrate,omitempty"`
}

type ExecuteMsg struct {
	ContractAddr string `json:"contract_addr"`
	// CodeHash is checked against the registered code when not empty
	CodeHash string `json:"code_hash,omitempty"`
	Msg      []byte `json:"msg"`
	Funds    Coins  `json:"funds"`
}

type InstantiateMsg struct {
	CodeID   uint64 `json:"code_id"`
	CodeHash string `json:"code_hash,omitempty"`
	Msg      []byte `json:"msg"`
	Funds    Coins  `json:"funds"`
	Label    string `json:"label"`
	Admin    string `json:"admin,omitempty"`
}

type MigrateMsg struct {
	ContractAddr string `json:"contract_addr"`
	NewCodeID    uint64 `json:"new_code_id"`
	Msg          []byte `json:"msg"`
}

type BankMsg struct {
	Send *SendMsg `json:"send,omitempty"`
	Burn *BurnMsg `json:"burn,omitempty"`
}

type SendMsg struct {
	ToAddress string `json:"to_address"`
	Amount    Coins  `json:"amount"`
}

type BurnMsg struct {
	Amount Coins `json:"amount"`
}

func WasmExecute(contractAddr string, codeHash string, msg []byte, funds Coins) CosmosMsg {
	return CosmosMsg{Wasm: &WasmMsg{Execute: &ExecuteMsg{
		ContractAddr: contractAddr,
		CodeHash:     codeHash,
		Msg:          msg,
		Funds:        funds,
	}}}
}

func WasmInstantiate(codeID uint64, codeHash string, msg []byte, funds Coins, label string) CosmosMsg {
	return CosmosMsg{Wasm: &WasmMsg{Instantiate: &InstantiateMsg{
		CodeID:   codeID,
		CodeHash: codeHash,
		Msg:      msg,
		Funds:    funds,
		Label:    label,
	}}}
}

func WasmMigrate(contractAddr string, newCodeID uint64, msg []byte) CosmosMsg {
	return CosmosMsg{Wasm: &WasmMsg{Migrate: &MigrateMsg{
		ContractAddr: contractAddr,
		NewCodeID:    newCodeID,
		Msg:          msg,
	}}}
}

func BankSend(to string, amount Coins) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Send: &SendMsg{ToAddress: to, Amount: amount}}}
}

func BankBurn(amount Coins) CosmosMsg {
	return CosmosMsg{Bank: &BankMsg{Burn: &BurnMsg{Amount: amount}}}
}
