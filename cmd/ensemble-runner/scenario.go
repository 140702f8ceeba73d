package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	types "fadroma/modules/ensemble/types"
)

// Step is one action of a scenario. Which fields matter depends on Action.
type Step struct {
	Action string `mapstructure:"action" validate:"required,oneof=register instantiate execute query migrate add_funds next_block"`
	// Contract is the harness name for register, the target address otherwise
	Contract string `mapstructure:"contract"`
	// Code is the harness name to instantiate or migrate to
	Code   string      `mapstructure:"code"`
	Label  string      `mapstructure:"label"`
	Sender string      `mapstructure:"sender"`
	Admin  string      `mapstructure:"admin"`
	Msg    any         `mapstructure:"msg"`
	Funds  []FundsSpec `mapstructure:"funds" validate:"dive"`
	Blocks uint64      `mapstructure:"blocks"`
	// ExpectError makes the step pass only if it fails with this message
	ExpectError string `mapstructure:"expect_error"`
}

type FundsSpec struct {
	Denom  string `mapstructure:"denom" validate:"required"`
	Amount uint64 `mapstructure:"amount"`
}

type Scenario struct {
	Steps []Step
}

var stepValidator = validator.New(validator.WithRequiredStructEnabled())

func loadScenario(path string) (Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	return parseScenario(b)
}

func parseScenario(b []byte) (Scenario, error) {
	raw := struct {
		Steps []map[string]any `json:"steps"`
	}{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return Scenario{}, err
	}

	scenario := Scenario{Steps: make([]Step, len(raw.Steps))}
	for i, m := range raw.Steps {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &scenario.Steps[i],
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return Scenario{}, err
		}
		if err := decoder.Decode(m); err != nil {
			return Scenario{}, fmt.Errorf("step %d: %w", i, err)
		}
		if err := stepValidator.Struct(scenario.Steps[i]); err != nil {
			return Scenario{}, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return scenario, nil
}

func (s Step) msg() ([]byte, error) {
	if s.Msg == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(s.Msg)
}

func (s Step) funds() types.Coins {
	coins := make(types.Coins, len(s.Funds))
	for i, f := range s.Funds {
		coins[i] = types.NewCoin(f.Amount, f.Denom)
	}
	return coins
}
