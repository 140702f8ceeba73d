package ensemble_types

import (
	"slices"

	"github.com/JustinKnueppel/go-result"
)

type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

func NewEvent(ty string) Event {
	return Event{Type: ty, Attributes: make([]Attribute, 0)}
}

func (e Event) AddAttribute(key string, value string) Event {
	e.Attributes = append(slices.Clip(e.Attributes), Attribute{key, value})
	return e
}

// ContractResponse is what a contract entry point hands back to the
// ensemble. The builder methods copy on write so a value can be reused as
// a template.
type ContractResponse struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events"`
	Data       []byte      `json:"data,omitempty"`
}

func NewResponse() ContractResponse {
	return ContractResponse{}
}

func (r ContractResponse) AddMessage(msg CosmosMsg) ContractResponse {
	return r.AddSubMessage(NewSubMsg(msg))
}

func (r ContractResponse) AddSubMessage(msg SubMsg) ContractResponse {
	r.Messages = append(slices.Clip(r.Messages), msg)
	return r
}

func (r ContractResponse) AddAttribute(key string, value string) ContractResponse {
	r.Attributes = append(slices.Clip(r.Attributes), Attribute{key, value})
	return r
}

func (r ContractResponse) AddEvent(event Event) ContractResponse {
	r.Events = append(slices.Clip(r.Events), event)
	return r
}

func (r ContractResponse) SetData(data []byte) ContractResponse {
	r.Data = data
	return r
}

// Clone deep copies the slices so callers can't mutate r through the copy.
func (r ContractResponse) Clone() ContractResponse {
	events := make([]Event, len(r.Events))
	for i, e := range r.Events {
		events[i] = Event{Type: e.Type, Attributes: slices.Clone(e.Attributes)}
	}
	return ContractResponse{
		Messages:   slices.Clone(r.Messages),
		Attributes: slices.Clone(r.Attributes),
		Events:     events,
		Data:       slices.Clone(r.Data),
	}
}

// SubMsgResponse is the successful outcome of a sub message as seen by
// the reply entry point.
type SubMsgResponse struct {
	Events []Event `json:"events"`
	Data   []byte  `json:"data,omitempty"`
}

// Reply is delivered to the contract that sent sub message ID. An error
// result holds the error the sub message failed with.
type Reply struct {
	ID     uint64
	Result result.Result[SubMsgResponse]
}
