// Package mocks provides test doubles. The service mocks are function-field
// doubles used by the HTTP handler and router tests: each calls its XxxFn
// field when set and otherwise returns its default values. The Memory*
// stores are map-backed fakes for tests that run real services end to end.
package mocks
