package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/moto/pkg/domain"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*$`)

// Parser turns textual binding metadata (comma-separated name lists) into
// validated names. It never resolves names; that is the registry's job.
type Parser struct {
	// AllowDuplicates permits the same name to appear more than once.
	// Transition lists allow it (a function may be applied twice); middleware lists do not.
	AllowDuplicates bool
}

// NewParser creates a parser that rejects duplicate names.
func NewParser() *Parser {
	return &Parser{}
}

// ParseNames splits decl on commas and trims each entry.
// Empty declarations, empty entries and names that are not identifiers are rejected.
func (p *Parser) ParseNames(subject, decl string) ([]string, error) {
	if strings.TrimSpace(decl) == "" {
		return nil, domain.NewCompositionError(subject, decl,
			fmt.Errorf("%w: empty name list", domain.ErrMalformedDeclaration))
	}

	parts := strings.Split(decl, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, domain.NewCompositionError(subject, decl,
				fmt.Errorf("%w: empty entry at position %d", domain.ErrMalformedDeclaration, i+1))
		}
		if !namePattern.MatchString(name) {
			return nil, domain.NewCompositionError(subject, name,
				fmt.Errorf("%w: not a valid name", domain.ErrMalformedDeclaration))
		}
		if seen[name] && !p.AllowDuplicates {
			return nil, domain.NewCompositionError(subject, name,
				fmt.Errorf("%w: declared more than once", domain.ErrMalformedDeclaration))
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// ParseBounds parses a comma-separated list of capability names.
// An empty declaration is valid and yields no bounds.
func (p *Parser) ParseBounds(subject, decl string) (domain.Bounds, error) {
	if strings.TrimSpace(decl) == "" {
		return nil, nil
	}
	names, err := p.ParseNames(subject, decl)
	if err != nil {
		return nil, err
	}
	bounds := make(domain.Bounds, 0, len(names))
	for _, name := range names {
		c, err := domain.ParseCapability(name)
		if err != nil {
			return nil, domain.NewCompositionError(subject, name, domain.ErrUnresolvedName)
		}
		bounds = append(bounds, c)
	}
	return bounds, nil
}
