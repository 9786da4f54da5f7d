package ledger

import (
	"os"

	"github.com/pelletier/go-toml"
)

type AppConfiguration struct {
	Listen string `toml:"listen"`
}

type GenesisConfiguration struct {
	Owner       string `toml:"owner"`
	Name        string `toml:"name"`
	Symbol      string `toml:"symbol"`
	Description string `toml:"description"`
	Logo        string `toml:"logo"`
	BaseURI     string `toml:"base-uri"`
	SupplyCap   uint64 `toml:"supply-cap"`
}

type Configuration struct {
	App     AppConfiguration     `toml:"app"`
	Genesis GenesisConfiguration `toml:"genesis"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var conf Configuration
	err = toml.Unmarshal(f, &conf)
	if err != nil {
		return nil, err
	}
	return &conf, nil
}
