package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fadroma/modules/aggregate"
	"fadroma/modules/ensemble"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticConfig struct {
	ensemble.Config
}

func (c staticConfig) Get() ensemble.Config {
	return c.Config
}

func TestRunScenario(t *testing.T) {
	out := &bytes.Buffer{}
	r := newRunner(args{scenario: "testdata/counter.json", logLevel: "error"}, staticConfig{ensemble.DefaultConfig()}, out)

	require.NoError(t, aggregate.New([]aggregate.Plugin{r}).Run())

	output := out.String()
	assert.Contains(t, output, "#0 register counter as code 0")
	assert.Contains(t, output, "#1 register echo as code 1")
	assert.Contains(t, output, "#2 add_funds user now holds 100uscrt")
	assert.Contains(t, output, `#7 query {"count":2}`)
	assert.Contains(t, output, `"id":1,"ok":false,"error":"intentional failure"`)
	assert.Contains(t, output, `"id":2,"ok":true`)
	assert.Contains(t, output, "#9 execute failed as expected: intentional failure")
	assert.Contains(t, output, "#11 next_block height 4")
	assert.Equal(t, "90uscrt", r.ensemble.Balances("user").String())
	assert.Equal(t, "10uscrt", r.ensemble.Balances("bob").String())
}

func TestRunWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(scenario, []byte(`{"steps":[{"action":"next_block"}]}`), 0644))

	conf := ensemble.NewConfig(&dir)
	out := &bytes.Buffer{}
	r := newRunner(args{scenario: scenario, logLevel: "error"}, conf, out)

	require.NoError(t, aggregate.New([]aggregate.Plugin{conf, r}).Run())
	assert.Contains(t, out.String(), "#0 next_block height 2")

	_, err := os.Stat(filepath.Join(dir, "config", "Config.json"))
	assert.NoError(t, err)
}

func TestUnexpectedOutcomeFails(t *testing.T) {
	dir := t.TempDir()
	scenario := filepath.Join(dir, "scenario.json")
	require.NoError(t, os.WriteFile(scenario, []byte(`{"steps":[{"action":"next_block","expect_error":"boom"}]}`), 0644))

	r := newRunner(args{scenario: scenario, logLevel: "error"}, staticConfig{ensemble.DefaultConfig()}, &bytes.Buffer{})
	require.NoError(t, r.Init())
	_, err := r.Start().Await(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedOutcome)
}

func TestParseScenarioErrors(t *testing.T) {
	_, err := parseScenario([]byte(`{"steps":[{"action":"teleport"}]}`))
	assert.Error(t, err)

	_, err = parseScenario([]byte(`{"steps":[{"action":"execute","unknown":1}]}`))
	assert.Error(t, err)

	_, err = parseScenario([]byte(`{"steps":[{"action":"add_funds","contract":"user","funds":[{"amount":1}]}]}`))
	assert.Error(t, err)

	s, err := parseScenario([]byte(`{"steps":[{"action":"add_funds","contract":"user","funds":[{"denom":"uscrt","amount":"5"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "5uscrt", s.Steps[0].funds().String())
}
