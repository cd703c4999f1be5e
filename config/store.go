package config

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradejournal/journal"
)

// Normalizer returns the trade normalizer for this account.
func (c *Config) Normalizer() journal.Normalizer {
	sizes := make(map[string]float64, len(c.Account.ContractSizes))
	for sym, cs := range c.Account.ContractSizes {
		sizes[strings.ToUpper(sym)] = cs
	}
	return journal.Normalizer{ContractSize: c.Account.ContractSize, ContractSizes: sizes}
}

// OpenStore opens the configured trade store.
func (c *Config) OpenStore() (journal.Store, error) {
	switch c.Store.Type {
	case "memory":
		return journal.NewMemoryStore(c.Normalizer()), nil
	case "sqlite":
		s, err := journal.NewSQLite(c.Store.DBPath, c.Normalizer())
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store type %q", c.Store.Type)
}
