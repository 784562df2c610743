// Package config provides configuration structures for the recommendation engine.
// It defines ANN graph parameters, result limits, and title-normalization rules.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Settings contains all configuration options for a recommendation corpus.
// It covers the ANN graph construction/search parameters, the embedding
// dimension, the result cap, and the title-token substitution table.
//
// Every component receives its Settings through its constructor; there is no
// process-wide mutable configuration.
type Settings struct {
	// MaxNeighbors is the maximum number of graph connections per node per
	// layer (commonly called M). Layer 0 allows double this value.
	MaxNeighbors int `toml:"max_neighbors" json:"max_neighbors"`

	// EfConstruction is the candidate-list size used while building the graph.
	// Larger values improve graph quality at the cost of slower insertion.
	EfConstruction int `toml:"ef_construction" json:"ef_construction"`

	// EfSearch is the candidate-list size used while querying. It is raised
	// to k internally whenever a query asks for more results than EfSearch.
	EfSearch int `toml:"ef_search" json:"ef_search"`

	// Dimension is the embedding vector dimension shared by all documents.
	// A value of 0 lets the index adopt the dimension of the first insert.
	Dimension int `toml:"dimension" json:"dimension"`

	// MaxResults caps the number of recommendations returned per document.
	MaxResults int `toml:"max_results" json:"max_results"`

	// TokenSubstitutions maps corpus-specific compound terms (e.g. ".NET",
	// "C#") to single replacement tokens, applied to every title before
	// tokenization so the compound term survives as one token.
	TokenSubstitutions map[string]string `toml:"token_substitutions" json:"token_substitutions"`
}

const (
	defaultMaxNeighbors   = 15
	defaultEfConstruction = 200
	defaultEfSearch       = 200
	defaultMaxResults     = 3
)

// DefaultTokenSubstitutions returns the substitution table for the reference
// corpus: punctuation-laden brand terms that the tokenizer would otherwise
// break apart or conflate with unrelated words.
func DefaultTokenSubstitutions() map[string]string {
	return map[string]string{
		"asp.net":     "aspnet",
		".net":        "dotnet",
		"node.js":     "nodejs",
		"objective-c": "objectivec",
		"c#":          "csharp",
		"f#":          "fsharp",
		"c++":         "cpp",
	}
}

// ApplyDefaults applies default values to unset settings.
func (s *Settings) ApplyDefaults() {
	if s.MaxNeighbors == 0 {
		s.MaxNeighbors = defaultMaxNeighbors
	}
	if s.EfConstruction == 0 {
		s.EfConstruction = defaultEfConstruction
	}
	if s.EfSearch == 0 {
		s.EfSearch = defaultEfSearch
	}
	if s.MaxResults == 0 {
		s.MaxResults = defaultMaxResults
	}
	if s.TokenSubstitutions == nil {
		s.TokenSubstitutions = DefaultTokenSubstitutions()
	}
}

// Validate checks the settings for conflicts and returns a list of problems.
// An empty slice means the settings are usable.
func (s *Settings) Validate() []string {
	var conflicts []string

	if s.MaxNeighbors < 2 {
		conflicts = append(conflicts, "max_neighbors must be at least 2")
	}
	if s.EfConstruction < s.MaxNeighbors {
		conflicts = append(conflicts, "ef_construction must not be smaller than max_neighbors")
	}
	if s.EfSearch < 1 {
		conflicts = append(conflicts, "ef_search must be at least 1")
	}
	if s.Dimension < 0 {
		conflicts = append(conflicts, "dimension must not be negative")
	}
	if s.MaxResults < 1 {
		conflicts = append(conflicts, "max_results must be at least 1")
	}

	for from, to := range s.TokenSubstitutions {
		if strings.TrimSpace(from) == "" {
			conflicts = append(conflicts, "token_substitutions key cannot be empty or whitespace-only")
		}
		if strings.TrimSpace(to) == "" {
			conflicts = append(conflicts, fmt.Sprintf("token_substitutions replacement for '%s' cannot be empty", from))
		}
	}

	return conflicts
}

// LoadFile reads settings from a TOML file, applies defaults and validates.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings.ApplyDefaults()

	if conflicts := settings.Validate(); len(conflicts) > 0 {
		return Settings{}, fmt.Errorf("invalid config file %s: %s", path, strings.Join(conflicts, "; "))
	}

	return settings, nil
}
