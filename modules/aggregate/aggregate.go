package aggregate

import (
	"context"
	"errors"

	"github.com/chebyrash/promise"
)

// Aggregate drives a fixed set of plugins through their lifecycle as one.
type Aggregate struct {
	ctx     context.Context
	cancel  context.CancelFunc
	plugins []Plugin
	started int
}

var _ Plugin = &Aggregate{}

func New(plugins []Plugin) *Aggregate {
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregate{
		ctx:     ctx,
		cancel:  cancel,
		plugins: plugins,
	}
}

// Run initializes and starts every plugin, waits for all of them to finish
// and stops whatever was started, even when starting failed.
func (a *Aggregate) Run() error {
	defer a.cancel()

	if err := a.Init(); err != nil {
		a.Stop()
		return err
	}

	_, startErr := a.Start().Await(a.ctx)
	stopErr := a.Stop()

	return errors.Join(startErr, stopErr)
}

// Init implements Plugin.
func (a *Aggregate) Init() error {
	for _, p := range a.plugins {
		if err := p.Init(); err != nil {
			return err
		}
		a.started++
	}
	return nil
}

// Start implements Plugin.
func (a *Aggregate) Start() *promise.Promise[any] {
	promises := make([]*promise.Promise[any], len(a.plugins))
	for i, p := range a.plugins {
		promises[i] = p.Start()
	}
	return promise.Then(
		promise.All(a.ctx, promises...),
		a.ctx,
		func([]any) (any, error) {
			return nil, nil
		},
	)
}

// Stop implements Plugin. Plugins are stopped in reverse order, and only
// those whose Init succeeded.
func (a *Aggregate) Stop() error {
	var errs []error
	for i := a.started - 1; i >= 0; i-- {
		if err := a.plugins[i].Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	a.started = 0
	return errors.Join(errs...)
}
