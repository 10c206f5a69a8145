package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
)

//go:embed data/exercises.json
var exercisesJSON []byte

//go:embed data/programs.json
var programsJSON []byte

// LoadEmbedded builds the catalog bundled with the binary.
func LoadEmbedded() (*Catalog, error) {
	c, err := Load(bytes.NewReader(exercisesJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded exercises: %w", err)
	}
	return c, nil
}

// LoadEmbeddedPrograms builds the program list bundled with the binary.
func LoadEmbeddedPrograms() (*Programs, error) {
	p, err := LoadPrograms(bytes.NewReader(programsJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded programs: %w", err)
	}
	return p, nil
}
