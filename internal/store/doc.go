// Package store defines the persistence interfaces of the task service and the
// sentinel errors implementations return. Postgres and S3 implementations live
// under internal/platform.
package store
