/*
Package reducer composes transition functions bound to the fields of a state
shape into a single Node whose Dispatch reports whether anything changed.

Bindings are declared with a Builder, field by field, in code. A field is
governed either by an ordered list of transition functions (by registry name
or by value) or by a nested Builder (a sub-reducer), never both:

	thing := reducer.New[Thing, Action]("thing")
	reducer.Field(thing, "counter", func(s *Thing) *int64 { return &s.Counter }).Reducers("counter")
	reducer.Field(thing, "appender", func(s *Thing) *string { return &s.Appender }).Reducers("appender")
	reducer.Sub(thing, "sub_state", func(s *Thing) *SubThing { return &s.SubState }, sub)

	node, err := thing.Build(reg)

Build resolves every name once. Dispatch never consults the registry.

# Field ownership

During Dispatch each field is read once, threaded through its transitions in
declared order, and written back once. If a transition panics the write-back
never happens, the field keeps its prior value, and the panic is re-raised as
a *domain.FaultError. Faults are not converted into return values.
*/
package reducer
