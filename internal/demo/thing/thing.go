// Package thing is the smallest useful moto application: a counter, a string
// appender and a nested toggle.
package thing

import (
	"fmt"
	"strings"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
)

// Kind enumerates the actions understood by Thing.
type Kind int

const (
	Inc Kind = iota
	Dec
	Append
	Nothing
)

var kindNames = map[Kind]string{Inc: "Inc", Dec: "Dec", Append: "Append", Nothing: "Nothing"}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Action is a Kind plus the text carried by Append.
type Action struct {
	Kind Kind
	Text string
}

// String returns the kind only, so metric labels stay bounded.
func (a Action) String() string { return a.Kind.String() }

// Sub is the nested state governed by its own reducer node.
type Sub struct {
	Toggle bool `json:"toggle"`
}

// Thing is the root state.
type Thing struct {
	Counter  int64  `json:"counter"`
	Appender string `json:"appender"`
	SubState Sub    `json:"sub_state"`
}

// Counter handles Inc and Dec.
func Counter(v int64, a Action) domain.Outcome[int64] {
	switch a.Kind {
	case Inc:
		return domain.Changed(v + 1)
	case Dec:
		return domain.Changed(v - 1)
	}
	return domain.Unchanged(v)
}

// Appender handles Append.
func Appender(v string, a Action) domain.Outcome[string] {
	if a.Kind == Append {
		return domain.Changed(v + a.Text)
	}
	return domain.Unchanged(v)
}

// Toggle flips on every action except Nothing.
func Toggle(v bool, a Action) domain.Outcome[bool] {
	if a.Kind == Nothing {
		return domain.Unchanged(v)
	}
	return domain.Changed(!v)
}

// Register adds the transitions to reg.
func Register(reg *registry.Registry) {
	reducer.Register(reg, "counter", Counter)
	reducer.Register(reg, "appender", Appender)
	reducer.Register(reg, "toggle", Toggle)
}

// Declare declares Thing and Sub without bindings.
func Declare() *reducer.Builder[Thing, Action] {
	sub := reducer.New[Sub, Action]("sub_state")
	reducer.Field(sub, "toggle", func(s *Sub) *bool { return &s.Toggle })

	b := reducer.New[Thing, Action]("thing")
	reducer.Field(b, "counter", func(s *Thing) *int64 { return &s.Counter })
	reducer.Field(b, "appender", func(s *Thing) *string { return &s.Appender })
	reducer.Sub(b, "sub_state", func(s *Thing) *Sub { return &s.SubState }, sub)
	return b
}

// Builder declares Thing with its default bindings.
func Builder() *reducer.Builder[Thing, Action] {
	sub := reducer.New[Sub, Action]("sub_state")
	reducer.Field(sub, "toggle", func(s *Sub) *bool { return &s.Toggle }).Reducers("toggle")

	b := reducer.New[Thing, Action]("thing")
	reducer.Field(b, "counter", func(s *Thing) *int64 { return &s.Counter }).Reducers("counter")
	reducer.Field(b, "appender", func(s *Thing) *string { return &s.Appender }).Reducers("appender")
	reducer.Sub(b, "sub_state", func(s *Thing) *Sub { return &s.SubState }, sub)
	return b
}

// ParseAction reads "inc", "dec", "nothing" or "append <text>".
func ParseAction(line string) (Action, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	switch strings.ToLower(verb) {
	case "inc":
		return Action{Kind: Inc}, nil
	case "dec":
		return Action{Kind: Dec}, nil
	case "nothing":
		return Action{Kind: Nothing}, nil
	case "append":
		return Action{Kind: Append, Text: rest}, nil
	}
	return Action{}, fmt.Errorf("unknown command %q", verb)
}

// Markdown renders the state as a small table.
func Markdown(t Thing) string {
	return fmt.Sprintf("| field | value |\n|---|---|\n| counter | %d |\n| appender | %q |\n| sub_state.toggle | %t |\n",
		t.Counter, t.Appender, t.SubState.Toggle)
}
