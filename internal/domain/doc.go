// Package domain contains the core business entities of the task service:
// users, tasks and avatars, the typed patches clients may apply to them, and
// the validation errors they produce. It is independent of storage and HTTP.
package domain
