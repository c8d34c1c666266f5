// Package api handles incoming HTTP requests for users, sessions, tasks and
// avatars. It decodes and validates requests, calls the services, and maps
// their errors to status codes and safe messages. Routing lives in
// cmd/server; the access gate lives in the middleware subpackage.
package api
