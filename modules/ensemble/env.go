package ensemble

import (
	types "fadroma/modules/ensemble/types"
)

// MockEnv describes who makes a top level call and what they attach to it.
type MockEnv struct {
	Sender string
	Funds  types.Coins
	// Label is the address of an instantiated contract
	Label string
	Admin string
	// CodeHash is checked against the target when set
	CodeHash string
}

func NewMockEnv(sender string) MockEnv {
	return MockEnv{Sender: sender}
}

func (e MockEnv) WithFunds(funds types.Coins) MockEnv {
	e.Funds = funds
	return e
}

func (e MockEnv) WithLabel(label string) MockEnv {
	e.Label = label
	return e
}

func (e MockEnv) WithAdmin(admin string) MockEnv {
	e.Admin = admin
	return e
}

func (e MockEnv) WithCodeHash(codeHash string) MockEnv {
	e.CodeHash = codeHash
	return e
}
