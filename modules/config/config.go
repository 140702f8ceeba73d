package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"reflect"

	"github.com/chebyrash/promise"
	"github.com/go-playground/validator/v10"

	"fadroma/lib/utils"
)

// Config is a JSON file backed value. The file is named after T and
// created with the default value on first Init. Struct values are checked
// against their validate tags on load and on every update.
type Config[T any] struct {
	defaultValue T
	dataDir      string
	validate     *validator.Validate

	loaded bool
	value  T
}

const DATA_DIR = "data"
const CONFIG_DIR = "config"

func New[T any](defaultValue T, dataDir *string) *Config[T] {
	dir := DATA_DIR
	if dataDir != nil && *dataDir != "" {
		dir = *dataDir
	}
	return &Config[T]{
		defaultValue: defaultValue,
		dataDir:      dir,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (c *Config[T]) FilePath() string {
	name := reflect.TypeOf((*T)(nil)).Elem().Name()
	return path.Join(c.dataDir, CONFIG_DIR, name+".json")
}

func (c *Config[T]) Init() error {
	f, err := os.Open(c.FilePath())
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		err = c.Update(func(t *T) {
			*t = c.defaultValue
		})
		if err != nil {
			return err
		}
	} else {
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		value := c.defaultValue
		if err := json.Unmarshal(b, &value); err != nil {
			return fmt.Errorf("parsing %s: %w", c.FilePath(), err)
		}
		if err := c.check(value); err != nil {
			return err
		}
		c.value = value
	}
	c.loaded = true
	return nil
}

func (c *Config[T]) Start() *promise.Promise[any] {
	return utils.PromiseResolve[any](nil)
}

func (c *Config[T]) Stop() error {
	return nil
}

func (c *Config[T]) Loaded() bool {
	return c.loaded
}

func (c *Config[T]) Get() T {
	return c.value
}

func (c *Config[T]) Update(updater func(*T)) error {
	temp := c.value
	updater(&temp)
	if err := c.check(temp); err != nil {
		return err
	}
	b, err := json.MarshalIndent(temp, "", "  ")
	if err != nil {
		return err
	}
	err = os.MkdirAll(path.Dir(c.FilePath()), 0755)
	if err != nil {
		return err
	}
	err = os.WriteFile(c.FilePath(), b, 0644)
	if err != nil {
		return err
	}
	c.value = temp
	return nil
}

func (c *Config[T]) check(value T) error {
	if reflect.TypeOf((*T)(nil)).Elem().Kind() != reflect.Struct {
		return nil
	}
	if err := c.validate.Struct(value); err != nil {
		return fmt.Errorf("invalid %s: %w", reflect.TypeOf((*T)(nil)).Elem().Name(), err)
	}
	return nil
}
