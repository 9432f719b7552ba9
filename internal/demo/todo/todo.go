// Package todo is a todo-list application built on moto: a list of todos
// governed by add/toggle transitions and a visibility filter with a guard
// against no-op updates.
package todo

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/moto/pkg/domain"
	"github.com/aretw0/moto/pkg/reducer"
	"github.com/aretw0/moto/pkg/registry"
)

// Todo is one entry of the list.
type Todo struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Visibility filters which todos are shown.
type Visibility int

const (
	All Visibility = iota
	Active
	Completed
)

func (v Visibility) String() string {
	switch v {
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "all"
	}
}

// ParseVisibility is the inverse of Visibility.String.
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "all":
		return All, nil
	case "active":
		return Active, nil
	case "completed":
		return Completed, nil
	}
	return All, fmt.Errorf("unknown visibility %q", s)
}

// State is the root state of the todo store.
type State struct {
	Todos      []Todo     `json:"todos"`
	Visibility Visibility `json:"visibility"`
}

// Action is one of Add, Toggle or SetVisibility.
type Action interface {
	fmt.Stringer
	isAction()
}

// Add appends a todo.
type Add struct{ Todo Todo }

// Toggle flips the completion of the todo with the given ID.
type Toggle struct{ ID int }

// SetVisibility changes the filter.
type SetVisibility struct{ Visibility Visibility }

func (Add) isAction()           {}
func (Toggle) isAction()        {}
func (SetVisibility) isAction() {}

func (Add) String() string           { return "Add" }
func (Toggle) String() string        { return "Toggle" }
func (SetVisibility) String() string { return "SetVisibility" }

// AddTodo handles Add.
func AddTodo(todos []Todo, action Action) domain.Outcome[[]Todo] {
	a, ok := action.(Add)
	if !ok {
		return domain.Unchanged(todos)
	}
	return domain.Changed(append(slices.Clip(todos), a.Todo))
}

// ToggleTodo handles Toggle. Unknown IDs leave the list unchanged.
func ToggleTodo(todos []Todo, action Action) domain.Outcome[[]Todo] {
	a, ok := action.(Toggle)
	if !ok {
		return domain.Unchanged(todos)
	}
	i := slices.IndexFunc(todos, func(t Todo) bool { return t.ID == a.ID })
	if i < 0 {
		return domain.Unchanged(todos)
	}
	next := slices.Clone(todos)
	next[i].Completed = !next[i].Completed
	return domain.Changed(next)
}

// SetVisibilityFilter handles SetVisibility. Setting the current value again is not a change.
func SetVisibilityFilter(v Visibility, action Action) domain.Outcome[Visibility] {
	if a, ok := action.(SetVisibility); ok && a.Visibility != v {
		return domain.Changed(a.Visibility)
	}
	return domain.Unchanged(v)
}

// Register adds the todo transitions to reg.
func Register(reg *registry.Registry) {
	reducer.Register(reg, "add_todo", AddTodo)
	reducer.Register(reg, "toggle_todo", ToggleTodo)
	reducer.Register(reg, "set_visibility", SetVisibilityFilter)
}

// Declare declares the fields of State without binding any transitions;
// bindings come from a manifest.
func Declare() *reducer.Builder[State, Action] {
	b := reducer.New[State, Action]("todos")
	reducer.Field(b, "todos", func(s *State) *[]Todo { return &s.Todos })
	reducer.Field(b, "visibility", func(s *State) *Visibility { return &s.Visibility })
	return b
}

// Builder declares State with its default bindings.
func Builder() *reducer.Builder[State, Action] {
	b := Declare()
	for field, decl := range map[string]string{
		"todos":      "add_todo, toggle_todo",
		"visibility": "set_visibility",
	} {
		binding, _ := b.Lookup(field)
		binding.Reducers(decl)
	}
	return b
}

// Visible returns the todos that pass the current filter.
func Visible(s State) []Todo {
	var out []Todo
	for _, t := range s.Todos {
		switch s.Visibility {
		case Active:
			if t.Completed {
				continue
			}
		case Completed:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Markdown renders the visible todos as a task list.
func Markdown(s State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Todos (%s)\n\n", s.Visibility)
	visible := Visible(s)
	if len(visible) == 0 {
		sb.WriteString("_nothing to show_\n")
	}
	for _, t := range visible {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s (#%d)\n", mark, t.Text, t.ID)
	}
	return sb.String()
}

// ParseAction reads one command line: "add <text>", "toggle <id>" or
// "show all|active|completed". nextID is used for added todos.
func ParseAction(line string, nextID int) (Action, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(verb) {
	case "add":
		if rest == "" {
			return nil, fmt.Errorf("add: missing text")
		}
		return Add{Todo: Todo{ID: nextID, Text: rest}}, nil
	case "toggle":
		id, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("toggle: invalid id %q", rest)
		}
		return Toggle{ID: id}, nil
	case "show":
		v, err := ParseVisibility(rest)
		if err != nil {
			return nil, fmt.Errorf("show: %w", err)
		}
		return SetVisibility{Visibility: v}, nil
	}
	return nil, fmt.Errorf("unknown command %q", verb)
}

// NextID returns an ID not used by any todo in s.
func NextID(s State) int {
	next := 0
	for _, t := range s.Todos {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	return next
}
