/*
Package moto is a small, declarative state container.

An application keeps all of its state in one root value owned by a Store. The
state changes only through pure transition functions bound to its fields, and
every change is announced to subscribers after the fact. Cross-cutting
behavior (logging, metrics, filtering) is inserted as middleware around the
dispatch path.

# Concept

A transition function maps the old value of one field and an action to a new
value plus a change flag:

	func counter(v int64, a Action) domain.Outcome[int64] {
		if a == Inc {
			return domain.Changed(v + 1)
		}
		return domain.Unchanged(v)
	}

A reducer builder declares which transitions govern which field, either by
registry name or by value. Fields holding a struct of their own can be handed
to a nested builder. Bindings and the middleware chain are resolved once, when
the store is built; any unresolved name or unsatisfied bound is reported then,
never on dispatch.

# Usage

	reg := registry.New()
	reducer.Register(reg, "counter", counter)

	b := reducer.New[State, Action]("state")
	reducer.Field(b, "counter", func(s *State) *int64 { return &s.Counter }).Reducers("counter")

	s, err := moto.New(State{}, b,
		moto.WithRegistry(reg),
		moto.WithMiddlewareNames("logger"),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.SubscribeFunc(func(s *store.Store[State, Action]) {
		fmt.Println("counter:", s.State().Counter)
	})
	s.Dispatch(Inc)

The same bindings can be written in a YAML or JSON manifest and applied with
WithManifest or WithManifestFile.
*/
package moto
