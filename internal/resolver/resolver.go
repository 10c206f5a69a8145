// Package resolver maps free-text exercise names from authored programs to
// exercise catalog identifiers.
package resolver

import (
	"strings"

	"alcyxob/fitprogram/internal/catalog"

	log "github.com/sirupsen/logrus"
)

// Strategy names the rule that produced a match.
type Strategy string

const (
	StrategyAlias     Strategy = "alias"
	StrategyExact     Strategy = "exact"
	StrategyFold      Strategy = "case_insensitive"
	StrategySubstring Strategy = "substring"
)

// Match is a successful resolution.
type Match struct {
	ExerciseID string
	Strategy   Strategy
}

// Resolver resolves names against one catalog. Rules are tried in order and
// the first hit wins; within a rule the first catalog entry in source order wins.
type Resolver struct {
	catalog *catalog.Catalog
	aliases AliasTable
}

// New creates a resolver. A nil alias table means DefaultAliases.
func New(c *catalog.Catalog, aliases AliasTable) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases
	}
	return &Resolver{catalog: c, aliases: aliases}
}

// Resolve returns the catalog identifier for name.
func (r *Resolver) Resolve(name string) (string, bool) {
	m, ok := r.ResolveMatch(name)
	if !ok {
		return "", false
	}
	return m.ExerciseID, true
}

// ResolveMatch is Resolve that also reports which rule matched.
func (r *Resolver) ResolveMatch(name string) (Match, bool) {
	if strings.TrimSpace(name) == "" {
		return Match{}, false
	}

	// 1. alias table: canonical label, then each alternate, exact only
	if alias, ok := r.aliases[name]; ok {
		if ex, found := r.catalog.GetByName(alias.Canonical); found {
			return Match{ExerciseID: ex.ID, Strategy: StrategyAlias}, true
		}
		for _, alt := range alias.Alternates {
			if ex, found := r.catalog.GetByName(alt); found {
				return Match{ExerciseID: ex.ID, Strategy: StrategyAlias}, true
			}
		}
		log.WithField("name", name).Debugf("alias target %q not in catalog", alias.Canonical)
	}

	// 2. raw exact match
	if ex, found := r.catalog.GetByName(name); found {
		return Match{ExerciseID: ex.ID, Strategy: StrategyExact}, true
	}

	// 3. case-insensitive exact
	if ex, found := r.catalog.FindFold(name); found {
		return Match{ExerciseID: ex.ID, Strategy: StrategyFold}, true
	}

	// 4. catalog name contains input
	if ex, found := r.catalog.FindContaining(name); found {
		return Match{ExerciseID: ex.ID, Strategy: StrategySubstring}, true
	}

	return Match{}, false
}

// UnsatisfiedAlias is an alias entry none of whose targets exist in the catalog.
type UnsatisfiedAlias struct {
	Label string
	Alias Alias
}

// CheckAliases reports alias entries that cannot resolve through the alias
// rule. Such entries silently fall through to the fuzzy rules at runtime.
func (r *Resolver) CheckAliases() []UnsatisfiedAlias {
	var out []UnsatisfiedAlias
	for label, alias := range r.aliases {
		if _, ok := r.catalog.GetByName(alias.Canonical); ok {
			continue
		}
		satisfied := false
		for _, alt := range alias.Alternates {
			if _, ok := r.catalog.GetByName(alt); ok {
				satisfied = true
				break
			}
		}
		if !satisfied {
			out = append(out, UnsatisfiedAlias{Label: label, Alias: alias})
		}
	}
	sortUnsatisfied(out)
	return out
}
