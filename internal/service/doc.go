// Package service contains the application use cases: the session manager
// that issues and checks bearer tokens, and the user, task and avatar
// services built on top of it.
//
// Services depend on the store interfaces and never on a concrete database.
// Operations that touch more than one store run inside store.RunInTransaction,
// using the WithTx variants of each store.
package service
