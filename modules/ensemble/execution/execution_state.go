package execution

import (
	"errors"

	"github.com/JustinKnueppel/go-result"
	"github.com/moznion/go-optional"

	errorsmod "cosmossdk.io/errors"

	"fadroma/lib/utils"
	"fadroma/modules/ensemble/response"
	types "fadroma/modules/ensemble/types"
)

const Codespace = "execution"

var (
	ErrNotFinished      = errorsmod.Register(Codespace, 2, "execution has not finished")
	ErrNoPendingMessage = errorsmod.Register(Codespace, 3, "no message is awaiting a result")
)

// MessageType is the next unit of work handed to the host, either a sub
// message to dispatch or a reply to deliver.
type MessageType interface {
	isMessageType()
}

type SubMsgCall struct {
	Msg    types.SubMsg
	Sender string
}

type ReplyCall struct {
	// Target is the contract that sent the sub message being replied to
	Target string
	Reply  types.Reply
}

func (SubMsgCall) isMessageType() {}
func (ReplyCall) isMessageType()  {}

// Scopes is the part of the revertible state the machine needs to undo a
// failed sub message before its sender's reply runs.
type Scopes interface {
	Depth() int
	RevertTo(depth int) error
}

// level holds the messages of one response. index counts the messages
// dispatched so far, the current one is msgs[index-1].
type level struct {
	sender string
	// parent emitted msgs, nil for the root level
	parent    response.Response
	msgs      []types.SubMsg
	index     int
	depths    []int
	responses []response.Response
	// replied is set once the reply for the current message has been
	// queued or found not to be owed
	replied bool
	// failed is set when the current message failed and its error reply
	// stands in for its response
	failed bool
}

func newLevel(sender string, parent response.Response, msgs []types.SubMsg) *level {
	if len(msgs) == 0 {
		panic("execution level needs at least one message")
	}
	return &level{
		sender:    sender,
		parent:    parent,
		msgs:      msgs,
		depths:    make([]int, len(msgs)),
		responses: make([]response.Response, 0, len(msgs)),
	}
}

func (l *level) current() types.SubMsg {
	return l.msgs[l.index-1]
}

// ExecutionState walks the tree of sub messages of one top level call
// depth first. Messages of a level run in order, a message's reply is
// delivered after its whole subtree and before its next sibling.
type ExecutionState struct {
	initialSender optional.Option[string]
	levels        []*level
	next          optional.Option[MessageType]
	pending       optional.Option[MessageType]
	scopes        Scopes
}

func New(initial types.SubMsg, sender string, scopes Scopes) *ExecutionState {
	return &ExecutionState{
		initialSender: optional.Some(sender),
		levels:        []*level{newLevel(sender, nil, []types.SubMsg{initial})},
		next:          optional.None[MessageType](),
		pending:       optional.None[MessageType](),
		scopes:        scopes,
	}
}

func (s *ExecutionState) top() *level {
	return utils.Last(s.levels)
}

func (s *ExecutionState) Depth() int {
	return len(s.levels)
}

// Next returns the next unit of work, None once the tree is exhausted.
func (s *ExecutionState) Next() optional.Option[MessageType] {
	var call MessageType
	if sender, err := s.initialSender.Take(); err == nil {
		s.initialSender = optional.None[string]()
		root := s.top()
		root.index = 1
		call = SubMsgCall{Msg: root.current(), Sender: sender}
	} else {
		next, err := s.next.Take()
		if err != nil {
			return optional.None[MessageType]()
		}
		s.next = optional.None[MessageType]()
		call = next
	}

	if _, ok := call.(SubMsgCall); ok {
		top := s.top()
		top.depths[top.index-1] = s.scopes.Depth()
	}
	s.pending = optional.Some(call)
	return optional.Some(call)
}

// ProcessResult folds the outcome of the call last returned by Next into
// the tree and queues the following one. A contract error is turned into
// an error reply when an unresolved message above it asked for one,
// anything else is returned to the caller.
func (s *ExecutionState) ProcessResult(res result.Result[response.Response]) error {
	call, err := s.pending.Take()
	if err != nil {
		return ErrNoPendingMessage
	}
	s.pending = optional.None[MessageType]()

	if res.IsErr() {
		return s.processError(res.UnwrapErr())
	}

	resp := res.Unwrap()
	top := s.top()
	switch call.(type) {
	case SubMsgCall:
		top.responses = append(top.responses, resp)
	case ReplyCall:
		if top.failed {
			top.responses = append(top.responses, resp)
			top.failed = false
		} else {
			utils.Last(top.responses).AddResponses(resp)
		}
	}

	if msgs := resp.Messages(); len(msgs) > 0 {
		s.levels = append(s.levels, newLevel(resp.Address(), resp, msgs))
	}
	s.findNext()
	return nil
}

func (s *ExecutionState) findNext() {
	for {
		top := s.top()

		if top.index > 0 && !top.replied {
			top.replied = true
			current := top.current()
			if current.ReplyOn.OnSuccess() {
				resp := utils.Last(top.responses)
				s.next = optional.Some[MessageType](ReplyCall{
					Target: top.sender,
					Reply: types.Reply{
						ID: current.ID,
						Result: result.Ok(types.SubMsgResponse{
							Events: response.Flatten(resp),
							Data:   response.ReplyData(resp),
						}),
					},
				})
				return
			}
		}

		if top.index < len(top.msgs) {
			msg := top.msgs[top.index]
			top.index++
			top.replied = false
			s.next = optional.Some[MessageType](SubMsgCall{Msg: msg, Sender: top.sender})
			return
		}

		if len(s.levels) == 1 {
			return
		}
		s.squash()
	}
}

// squash folds the exhausted top level into the response that emitted it.
func (s *ExecutionState) squash() {
	top := s.top()
	s.levels = s.levels[:len(s.levels)-1]
	top.parent.AddResponses(top.responses...)
}

func (s *ExecutionState) processError(err error) error {
	var contractErr *types.ContractError
	if !errors.As(err, &contractErr) {
		return err
	}

	for i := len(s.levels) - 1; i >= 0; i-- {
		lvl := s.levels[i]
		if lvl.index == 0 || lvl.replied {
			continue
		}
		current := lvl.current()
		if !current.ReplyOn.OnError() {
			continue
		}

		if err := s.scopes.RevertTo(lvl.depths[lvl.index-1]); err != nil {
			return err
		}
		s.levels = s.levels[:i+1]
		lvl.responses = lvl.responses[:lvl.index-1]
		lvl.failed = true
		lvl.replied = true
		s.next = optional.Some[MessageType](ReplyCall{
			Target: lvl.sender,
			Reply: types.Reply{
				ID:     current.ID,
				Result: result.Err[types.SubMsgResponse](err),
			},
		})
		return nil
	}
	return err
}

// Finalize returns the resolved root response once nothing is left to do.
func (s *ExecutionState) Finalize() (response.Response, error) {
	if s.initialSender.IsSome() || s.next.IsSome() || s.pending.IsSome() {
		return nil, ErrNotFinished
	}
	if len(s.levels) != 1 || len(s.levels[0].responses) != 1 {
		return nil, errorsmod.Wrapf(ErrNotFinished, "%d levels left", len(s.levels))
	}
	return s.levels[0].responses[0], nil
}
