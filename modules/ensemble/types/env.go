package ensemble_types

// Env is the chain environment a contract entry point runs in.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

type BlockInfo struct {
	Height uint64 `json:"height"`
	// nanoseconds since unix epoch
	Time    uint64 `json:"time"`
	ChainID string `json:"chain_id"`
}

type ContractInfo struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash"`
}

// MessageInfo carries the sender of a call and the funds that were
// transferred to the contract before it ran.
type MessageInfo struct {
	Sender string `json:"sender"`
	Funds  Coins  `json:"funds"`
}

// ContractLink identifies an instance together with the hash of its code.
type ContractLink struct {
	Address  string `json:"address"`
	CodeHash string `json:"code_hash"`
}

// ContractCode is returned when a harness is registered.
type ContractCode struct {
	ID       uint64 `json:"id"`
	CodeHash string `json:"code_hash"`
}

type ContractInfoResponse struct {
	Address  string `json:"address"`
	CodeID   uint64 `json:"code_id"`
	CodeHash string `json:"code_hash"`
	Admin    string `json:"admin,omitempty"`
	Label    string `json:"label"`
}
