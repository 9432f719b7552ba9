/*
Package registry maps the names used in declarative bindings to functions.

Transition functions and middleware live in separate namespaces. Lookups are
typed: Resolve asserts the registered value to the signature the caller
expects, so a binding that names a function of the wrong field or action type
fails at composition time instead of at dispatch time.
*/
package registry
