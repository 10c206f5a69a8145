package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"alcyxob/fitprogram/internal/domain"
)

var ErrInvalidProgram = errors.New("invalid program entry")

// Programs is the static list of authored workout programs.
type Programs struct {
	programs []domain.ProgramData
}

// NewPrograms validates and wraps authored program data.
func NewPrograms(programs []domain.ProgramData) (*Programs, error) {
	seen := make(map[string]struct{}, len(programs))
	for i, p := range programs {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w: program %d has no name", ErrInvalidProgram, i)
		}
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate program %q", ErrInvalidProgram, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	out := make([]domain.ProgramData, len(programs))
	copy(out, programs)
	return &Programs{programs: out}, nil
}

// LoadPrograms decodes a JSON array of programs.
func LoadPrograms(r io.Reader) (*Programs, error) {
	var programs []domain.ProgramData
	if err := json.NewDecoder(r).Decode(&programs); err != nil {
		return nil, fmt.Errorf("decode programs: %w", err)
	}
	return NewPrograms(programs)
}

// All returns every program in source order.
func (p *Programs) All() []domain.ProgramData {
	out := make([]domain.ProgramData, len(p.programs))
	copy(out, p.programs)
	return out
}

// ByName returns the program with exactly this name.
func (p *Programs) ByName(name string) (domain.ProgramData, bool) {
	for _, prog := range p.programs {
		if prog.Name == name {
			return prog, true
		}
	}
	return domain.ProgramData{}, false
}

// Len returns the number of programs.
func (p *Programs) Len() int {
	return len(p.programs)
}
