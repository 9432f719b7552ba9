package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/aretw0/moto/internal/compiler"
	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/store"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Manifest is the declarative binding metadata of one store.
type Manifest struct {
	Name         string `mapstructure:"name" json:"name" yaml:"name"`
	Middleware   string `mapstructure:"middleware" json:"middleware,omitempty" yaml:"middleware,omitempty"`
	StateBounds  string `mapstructure:"state_bounds" json:"state_bounds,omitempty" yaml:"state_bounds,omitempty"`
	ActionBounds string `mapstructure:"action_bounds" json:"action_bounds,omitempty" yaml:"action_bounds,omitempty"`
	State        Shape  `mapstructure:"state" json:"state" yaml:"state"`
}

// Shape lists the bound fields of one state shape.
type Shape struct {
	Fields map[string]FieldSpec `mapstructure:"fields" json:"fields" yaml:"fields"`
}

// FieldSpec binds one field: either Reducers, or SubReducer with nested Fields.
type FieldSpec struct {
	Reducers   string               `mapstructure:"reducers" json:"reducers,omitempty" yaml:"reducers,omitempty"`
	SubReducer bool                 `mapstructure:"sub_reducer" json:"sub_reducer,omitempty" yaml:"sub_reducer,omitempty"`
	Fields     map[string]FieldSpec `mapstructure:"fields" json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Load reads a manifest file. Files ending in .json are parsed as JSON,
// anything else as YAML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a manifest in the given format ("yaml" or "json").
// Unknown keys are rejected.
func Parse(data []byte, format string) (*Manifest, error) {
	var raw map[string]any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse manifest yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", format)
	}

	var m Manifest
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  joinNameLists,
		ErrorUnused: true,
		Result:      &m,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, domain.NewCompositionError("manifest", "", fmt.Errorf("%w: %v", domain.ErrMalformedDeclaration, err))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// joinNameLists lets name lists be written as YAML/JSON sequences.
func joinNameLists(from, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String || (from.Kind() != reflect.Slice && from.Kind() != reflect.Array) {
		return data, nil
	}
	items, ok := data.([]any)
	if !ok {
		return data, nil
	}
	parts := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("name list entry %d is %T, want string", i+1, item)
		}
		parts[i] = s
	}
	return strings.Join(parts, ", "), nil
}

// Validate checks the syntax of every name list and bound without resolving names.
func (m *Manifest) Validate() error {
	p := compiler.NewParser()
	var errs []error
	if m.Name == "" {
		errs = append(errs, domain.NewCompositionError("manifest", "name",
			fmt.Errorf("%w: name is required", domain.ErrMalformedDeclaration)))
	}
	if strings.TrimSpace(m.Middleware) != "" {
		if _, err := p.ParseNames("middleware", m.Middleware); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := p.ParseBounds("state_bounds", m.StateBounds); err != nil {
		errs = append(errs, err)
	}
	if _, err := p.ParseBounds("action_bounds", m.ActionBounds); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, validateFields(m.Name, m.State.Fields)...)
	return domain.Join(errs)
}

func validateFields(path string, fields map[string]FieldSpec) []error {
	p := &compiler.Parser{AllowDuplicates: true}
	var errs []error
	for _, name := range sortedKeys(fields) {
		spec := fields[name]
		fieldPath := path + "." + name
		switch {
		case spec.SubReducer && spec.Reducers != "":
			errs = append(errs, domain.NewCompositionError(fieldPath, spec.Reducers,
				fmt.Errorf("%w: a sub-reducer field cannot also bind transitions", domain.ErrMalformedDeclaration)))
		case spec.SubReducer:
			errs = append(errs, validateFields(fieldPath, spec.Fields)...)
		case len(spec.Fields) > 0:
			errs = append(errs, domain.NewCompositionError(fieldPath, "",
				fmt.Errorf("%w: nested fields require sub_reducer", domain.ErrMalformedDeclaration)))
		default:
			if _, err := p.ParseNames(fieldPath, spec.Reducers); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// Apply attaches the manifest's transition names to the fields declared on b.
func (m *Manifest) Apply(b reducer.Configurable) error {
	return domain.Join(apply(m.Name, b, m.State.Fields))
}

func apply(path string, b reducer.Configurable, fields map[string]FieldSpec) []error {
	var errs []error
	for _, name := range sortedKeys(fields) {
		spec := fields[name]
		fieldPath := path + "." + name
		binding, ok := b.Lookup(name)
		if !ok {
			errs = append(errs, domain.NewCompositionError(path, name,
				fmt.Errorf("%w: field not declared on %s", domain.ErrUnresolvedName, b.Name())))
			continue
		}
		child, isSub := binding.Child()
		switch {
		case spec.SubReducer && !isSub:
			errs = append(errs, domain.NewCompositionError(fieldPath, "",
				fmt.Errorf("%w: field is not declared as a sub-reducer", domain.ErrMalformedDeclaration)))
		case spec.SubReducer:
			errs = append(errs, apply(fieldPath, child, spec.Fields)...)
		case isSub:
			errs = append(errs, domain.NewCompositionError(fieldPath, spec.Reducers,
				fmt.Errorf("%w: field is declared as a sub-reducer", domain.ErrMalformedDeclaration)))
		default:
			binding.Reducers(spec.Reducers)
		}
	}
	return errs
}

// StoreOptions returns the store options the manifest declares: bounds first,
// then the middleware chain.
func (m *Manifest) StoreOptions() ([]store.Option, error) {
	p := compiler.NewParser()
	stateBounds, err := p.ParseBounds("state_bounds", m.StateBounds)
	if err != nil {
		return nil, err
	}
	actionBounds, err := p.ParseBounds("action_bounds", m.ActionBounds)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithID(m.Name),
		store.WithStateBounds(stateBounds...),
		store.WithActionBounds(actionBounds...),
	}
	if strings.TrimSpace(m.Middleware) != "" {
		opts = append(opts, store.WithMiddlewareNames(m.Middleware))
	}
	return opts, nil
}

func sortedKeys(fields map[string]FieldSpec) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
