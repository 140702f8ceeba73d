package ensemble_types

// ContractError marks an error that came out of a contract entry point.
type ContractError struct {
	Address string
	Err     error
}

func (e *ContractError) Error() string {
	return e.Err.Error()
}

func (e *ContractError) Unwrap() error {
	return e.Err
}
