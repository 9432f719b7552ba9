/*
Package manifest loads declarative binding metadata from YAML or JSON.

A manifest names, per state field, the transition functions that govern it
(or marks it as a sub-reducer), and, for the whole store, the ordered
middleware list and the capability bounds of the state and action types:

	name: thing
	middleware: "logger, metrics"
	state_bounds: "debug"
	action_bounds: "debug, stringer"
	state:
	  fields:
	    counter: { reducers: "counter" }
	    appender: { reducers: [appender] }
	    sub_state:
	      sub_reducer: true
	      fields:
	        toggle: { reducers: "toggle" }

Fields must already be declared on the reducer.Builder (the manifest supplies
names, code supplies field access). Malformed manifests are rejected when
loaded or applied, never at dispatch.
*/
package manifest
