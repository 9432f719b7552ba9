/*
Package domain contains the core types shared by every layer of moto.

It defines the result of a transition (Outcome), the signature of a transition
function, the capability bounds a store may declare for its state and action
types, and the error taxonomy used during composition and dispatch. This
package is kept pure and free of I/O.

# Key Entities

  - Outcome: the (possibly unchanged) value returned by a transition, tagged with a change flag.
  - TransitionFunc: a pure function from (field value, action) to Outcome.
  - Capability: a named bound (stringer, comparable, json) checked once at construction.
  - CompositionError: a construction-time failure. Stores are never returned alongside one.
  - FaultError: the panic value raised when a transition faults during dispatch.
*/
package domain
