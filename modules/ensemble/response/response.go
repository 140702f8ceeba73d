package response

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	types "fadroma/modules/ensemble/types"
)

// Response is the resolved outcome of one dispatched message. The set of
// implementations is closed. Messages never change after construction,
// children are only ever appended through AddResponses.
type Response interface {
	// Address is the account the response's messages are sent from.
	Address() string
	Messages() []types.SubMsg
	Events() []types.Event
	Data() []byte
	Children() []Response
	AddResponses(children ...Response)
	String() string

	sealed()
}

type node struct {
	children []Response
	events   []types.Event
}

func (n *node) Children() []Response {
	return slices.Clone(n.children)
}

func (n *node) AddResponses(children ...Response) {
	n.children = append(n.children, children...)
}

func (n *node) Events() []types.Event {
	return slices.Clone(n.events)
}

func (n *node) sealed() {}

// contract is embedded by every response that came out of a contract
// entry point.
type contract struct {
	node
	address  string
	response types.ContractResponse
}

func (c *contract) Address() string {
	return c.address
}

func (c *contract) Messages() []types.SubMsg {
	return slices.Clone(c.response.Messages)
}

func (c *contract) Data() []byte {
	return slices.Clone(c.response.Data)
}

// Response returns a copy of what the contract returned.
func (c *contract) Response() types.ContractResponse {
	return c.response.Clone()
}

type InstantiateResponse struct {
	contract
	Sender    string
	CodeID    uint64
	Instance  types.ContractLink
	Funds     types.Coins
	// replyData is what a reply to this instantiation carries
	replyData []byte
}

func NewInstantiateResponse(sender string, codeID uint64, instance types.ContractLink, funds types.Coins, res types.ContractResponse) (*InstantiateResponse, error) {
	events, err := contractEvents("instantiate", instance.Address, []types.Attribute{
		{Key: "code_id", Value: strconv.FormatUint(codeID, 10)},
	}, res)
	if err != nil {
		return nil, err
	}
	if !funds.IsZero() {
		events = append([]types.Event{transferEvent(sender, instance.Address, funds)}, events...)
	}
	replyData, err := json.Marshal(instantiateData{
		ContractAddress: instance.Address,
		Data:            res.Data,
	})
	if err != nil {
		return nil, err
	}
	return &InstantiateResponse{
		contract: contract{
			node:     node{events: events},
			address:  instance.Address,
			response: res.Clone(),
		},
		Sender:    sender,
		CodeID:    codeID,
		Instance:  instance,
		Funds:     funds,
		replyData: replyData,
	}, nil
}

func (r *InstantiateResponse) String() string {
	return fmt.Sprintf("instantiate %s (code %d) by %s", r.Instance.Address, r.CodeID, r.Sender)
}

type ExecuteResponse struct {
	contract
	Sender string
	Funds  types.Coins
}

func NewExecuteResponse(sender string, address string, funds types.Coins, res types.ContractResponse) (*ExecuteResponse, error) {
	events, err := contractEvents("execute", address, nil, res)
	if err != nil {
		return nil, err
	}
	if !funds.IsZero() {
		events = append([]types.Event{transferEvent(sender, address, funds)}, events...)
	}
	return &ExecuteResponse{
		contract: contract{
			node:     node{events: events},
			address:  address,
			response: res.Clone(),
		},
		Sender: sender,
		Funds:  funds,
	}, nil
}

func (r *ExecuteResponse) String() string {
	return fmt.Sprintf("execute %s by %s", r.address, r.Sender)
}

type ReplyResponse struct {
	contract
	Reply types.Reply
}

func NewReplyResponse(address string, reply types.Reply, res types.ContractResponse) (*ReplyResponse, error) {
	events, err := contractEvents("reply", address, nil, res)
	if err != nil {
		return nil, err
	}
	return &ReplyResponse{
		contract: contract{
			node:     node{events: events},
			address:  address,
			response: res.Clone(),
		},
		Reply: reply,
	}, nil
}

func (r *ReplyResponse) String() string {
	outcome := "ok"
	if r.Reply.Result.IsErr() {
		outcome = "err"
	}
	return fmt.Sprintf("reply %d to %s (%s)", r.Reply.ID, r.address, outcome)
}

type MigrateResponse struct {
	contract
	Sender string
	CodeID uint64
}

func NewMigrateResponse(sender string, address string, codeID uint64, res types.ContractResponse) (*MigrateResponse, error) {
	events, err := contractEvents("migrate", address, []types.Attribute{
		{Key: "code_id", Value: strconv.FormatUint(codeID, 10)},
	}, res)
	if err != nil {
		return nil, err
	}
	return &MigrateResponse{
		contract: contract{
			node:     node{events: events},
			address:  address,
			response: res.Clone(),
		},
		Sender: sender,
		CodeID: codeID,
	}, nil
}

func (r *MigrateResponse) String() string {
	return fmt.Sprintf("migrate %s to code %d by %s", r.address, r.CodeID, r.Sender)
}

type BankResponse struct {
	node
	Sender   string
	Receiver string
	Coins    types.Coins
}

func NewBankResponse(sender string, receiver string, coins types.Coins) *BankResponse {
	return &BankResponse{
		node:     node{events: []types.Event{transferEvent(sender, receiver, coins)}},
		Sender:   sender,
		Receiver: receiver,
		Coins:    coins,
	}
}

func (r *BankResponse) Address() string          { return r.Sender }
func (r *BankResponse) Messages() []types.SubMsg { return nil }
func (r *BankResponse) Data() []byte             { return nil }

func (r *BankResponse) String() string {
	return fmt.Sprintf("send %s from %s to %s", r.Coins, r.Sender, r.Receiver)
}

type BurnResponse struct {
	node
	Sender string
	Coins  types.Coins
}

func NewBurnResponse(sender string, coins types.Coins) *BurnResponse {
	return &BurnResponse{
		node:   node{events: []types.Event{burnEvent(sender, coins)}},
		Sender: sender,
		Coins:  coins,
	}
}

func (r *BurnResponse) Address() string          { return r.Sender }
func (r *BurnResponse) Messages() []types.SubMsg { return nil }
func (r *BurnResponse) Data() []byte             { return nil }

func (r *BurnResponse) String() string {
	return fmt.Sprintf("burn %s from %s", r.Coins, r.Sender)
}

var (
	_ Response = &InstantiateResponse{}
	_ Response = &ExecuteResponse{}
	_ Response = &ReplyResponse{}
	_ Response = &MigrateResponse{}
	_ Response = &BankResponse{}
	_ Response = &BurnResponse{}
)

type instantiateData struct {
	ContractAddress string `json:"contract_address"`
	Data            []byte `json:"data,omitempty"`
}

// ReplyData is the data handed to a reply for a successful r. Instantiate
// replies wrap the contract data together with the new address.
func ReplyData(r Response) []byte {
	if res, ok := r.(*InstantiateResponse); ok {
		return slices.Clone(res.replyData)
	}
	return r.Data()
}
