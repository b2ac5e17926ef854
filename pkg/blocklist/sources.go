package blocklist

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// BuildSources converts list configuration into loadable sources, keeping the
// configured order. Entries without a URL fall back to the catalog entry of
// the same id. With no configuration at all the whole catalog is used.
func BuildSources(catalog []ListDefinition, configs []ListConfig) []Source {
	if len(configs) == 0 {
		return lo.Map(catalog, func(def ListDefinition, _ int) Source {
			return Source{ID: def.ID, Location: def.URL, Category: def.Category, Enabled: true}
		})
	}

	sources := make([]Source, 0, len(configs))
	for i, cfg := range configs {
		id := strings.TrimSpace(cfg.ID)
		if id == "" {
			id = fmt.Sprintf("source_%d", i+1)
		}
		location := strings.TrimSpace(cfg.URL)
		category := cfg.Category
		if def, ok := lo.Find(catalog, func(d ListDefinition) bool { return d.ID == id }); ok {
			if location == "" {
				location = def.URL
			}
			if category == "" {
				category = def.Category
			}
		}
		if location == "" {
			continue
		}
		sources = append(sources, Source{
			ID:       id,
			Location: location,
			Category: category,
			Enabled:  cfg.Enabled == nil || *cfg.Enabled,
			Auth: AuthConfig{
				Username: cfg.Username,
				Password: cfg.Password,
				Token:    cfg.Token,
				Header:   cfg.Header,
				Scheme:   cfg.Scheme,
			},
		})
	}

	return sources
}

// EnabledSources drops disabled entries.
func EnabledSources(sources []Source) []Source {
	return lo.Filter(sources, func(s Source, _ int) bool { return s.Enabled })
}
