package ensemble

import (
	"github.com/go-playground/validator/v10"

	"fadroma/modules/config"
)

type Config struct {
	ChainID     string `json:"chain_id" validate:"required"`
	StartHeight uint64 `json:"start_height"`
	// unix seconds
	StartTime uint64 `json:"start_time"`
	// seconds per block
	BlockTime          uint64 `json:"block_time" validate:"gt=0"`
	AutoIncrementBlock bool   `json:"auto_increment_block"`
	AddressPrefix      string `json:"address_prefix" validate:"required"`
	LogLevel           string `json:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
}

func DefaultConfig() Config {
	return Config{
		ChainID:       "fadroma-ensemble-testnet",
		StartHeight:   1,
		StartTime:     1_600_000_000,
		BlockTime:     6,
		AddressPrefix: "secret1",
		LogLevel:      "info",
	}
}

func (c Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(c)
}

type ensembleConfig struct {
	*config.Config[Config]
}

// NewConfig returns the file backed ensemble config, stored under
// dataDir/config/Config.json.
func NewConfig(dataDir *string) ensembleConfig {
	return ensembleConfig{config.New(DefaultConfig(), dataDir)}
}
