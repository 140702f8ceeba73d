package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chebyrash/promise"

	"fadroma/lib/logger"
	"fadroma/lib/utils"
	"fadroma/modules/aggregate"
	"fadroma/modules/contracts/counter"
	"fadroma/modules/contracts/echo"
	"fadroma/modules/ensemble"
	"fadroma/modules/ensemble/response"
	types "fadroma/modules/ensemble/types"
)

var ErrUnexpectedOutcome = fmt.Errorf("unexpected outcome")

var harnesses = map[string]types.ContractHarness{
	"counter": counter.Counter{},
	"echo":    echo.Echo{},
}

type configSource interface {
	Get() ensemble.Config
}

// runner plays a scenario against a fresh ensemble once started.
type runner struct {
	args     args
	conf     configSource
	out      io.Writer
	log      logger.Logger
	scenario Scenario
	ensemble *ensemble.ContractEnsemble
	codes    map[string]types.ContractCode
}

var _ aggregate.Plugin = &runner{}

func newRunner(a args, conf configSource, out io.Writer) *runner {
	return &runner{
		args:  a,
		conf:  conf,
		out:   out,
		log:   logger.New("runner"),
		codes: make(map[string]types.ContractCode),
	}
}

func (r *runner) Init() error {
	scenario, err := loadScenario(r.args.scenario)
	if err != nil {
		return err
	}
	r.scenario = scenario

	cfg := r.conf.Get()
	if r.args.logLevel != "" {
		cfg.LogLevel = r.args.logLevel
	}
	e, err := ensemble.New(cfg)
	if err != nil {
		return err
	}
	r.ensemble = e
	return nil
}

func (r *runner) Start() *promise.Promise[any] {
	if err := r.run(); err != nil {
		return utils.PromiseReject[any](err)
	}
	return utils.PromiseResolve[any](nil)
}

func (r *runner) Stop() error {
	return nil
}

func (r *runner) run() error {
	for i, step := range r.scenario.Steps {
		r.log.Debug("step", i, step.Action, step.Contract)
		out, err := r.step(step)
		if step.ExpectError != "" {
			if err == nil || !strings.Contains(err.Error(), step.ExpectError) {
				return fmt.Errorf("step %d (%s): %w: expected error %q, got %v", i, step.Action, ErrUnexpectedOutcome, step.ExpectError, err)
			}
			fmt.Fprintf(r.out, "#%d %s failed as expected: %s\n", i, step.Action, err)
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
		fmt.Fprintf(r.out, "#%d %s %s\n", i, step.Action, out)
	}
	return nil
}

func (r *runner) step(step Step) (string, error) {
	env := ensemble.NewMockEnv(step.Sender).
		WithFunds(step.funds()).
		WithLabel(step.Label).
		WithAdmin(step.Admin)

	switch step.Action {
	case "register":
		harness, ok := harnesses[step.Contract]
		if !ok {
			return "", fmt.Errorf("unknown harness %q", step.Contract)
		}
		code := r.ensemble.Register(harness)
		r.codes[step.Contract] = code
		return fmt.Sprintf("%s as code %d", step.Contract, code.ID), nil

	case "instantiate":
		code, err := r.code(step.Code)
		if err != nil {
			return "", err
		}
		msg, err := step.msg()
		if err != nil {
			return "", err
		}
		res, err := r.ensemble.Instantiate(code.ID, msg, env)
		if err != nil {
			return "", err
		}
		return r.describe(res), nil

	case "execute":
		msg, err := step.msg()
		if err != nil {
			return "", err
		}
		res, err := r.ensemble.Execute(step.Contract, msg, env)
		if err != nil {
			return "", err
		}
		return r.describe(res), nil

	case "query":
		msg, err := step.msg()
		if err != nil {
			return "", err
		}
		res, err := r.ensemble.Query(step.Contract, msg)
		if err != nil {
			return "", err
		}
		return string(res), nil

	case "migrate":
		code, err := r.code(step.Code)
		if err != nil {
			return "", err
		}
		msg, err := step.msg()
		if err != nil {
			return "", err
		}
		res, err := r.ensemble.Migrate(step.Contract, code.ID, msg, env)
		if err != nil {
			return "", err
		}
		return r.describe(res), nil

	case "add_funds":
		if err := r.ensemble.AddFunds(step.Contract, step.funds()); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s now holds %s", step.Contract, r.ensemble.Balances(step.Contract)), nil

	case "next_block":
		block := r.ensemble.NextBlock(max(step.Blocks, 1))
		return fmt.Sprintf("height %d", block.Height), nil
	}
	return "", errors.New("unknown action " + step.Action)
}

func (r *runner) code(name string) (types.ContractCode, error) {
	code, ok := r.codes[name]
	if !ok {
		return types.ContractCode{}, fmt.Errorf("%q is not registered", name)
	}
	return code, nil
}

func (r *runner) describe(res response.Response) string {
	b := strings.Builder{}
	b.WriteString(res.String())
	for _, event := range response.Flatten(res) {
		b.WriteString("\n    " + event.Type)
		for _, attr := range event.Attributes {
			b.WriteString(" " + attr.Key + "=" + attr.Value)
		}
	}
	if r.args.tree {
		b.WriteString("\n" + response.Tree(res))
	}
	return b.String()
}
