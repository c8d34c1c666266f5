package domain

import (
	"bytes"
	"encoding/json"
	"sort"
)

// UserPatch holds the user fields a client may change. Nil means "leave as is".
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// IsEmpty reports whether the patch sets no field.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Age == nil
}

// TaskPatch holds the task fields a client may change.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch sets no field.
func (p TaskPatch) IsEmpty() bool {
	return p.Description == nil && p.Completed == nil
}

// ParseUserPatch decodes a JSON object into a UserPatch. Any key outside
// name, email, password and age rejects the whole patch.
func ParseUserPatch(data []byte) (UserPatch, error) {
	var patch UserPatch

	fields, err := decodePatchObject(data, "name", "email", "password", "age")
	if err != nil {
		return patch, err
	}

	for name, raw := range fields {
		switch name {
		case "name":
			patch.Name, err = decodeField[string](name, raw)
		case "email":
			patch.Email, err = decodeField[string](name, raw)
		case "password":
			patch.Password, err = decodeField[string](name, raw)
		case "age":
			patch.Age, err = decodeField[int](name, raw)
		}
		if err != nil {
			return UserPatch{}, err
		}
	}

	return patch, nil
}

// ParseTaskPatch decodes a JSON object into a TaskPatch. Any key outside
// description and completed rejects the whole patch.
func ParseTaskPatch(data []byte) (TaskPatch, error) {
	var patch TaskPatch

	fields, err := decodePatchObject(data, "description", "completed")
	if err != nil {
		return patch, err
	}

	for name, raw := range fields {
		switch name {
		case "description":
			patch.Description, err = decodeField[string](name, raw)
		case "completed":
			patch.Completed, err = decodeField[bool](name, raw)
		}
		if err != nil {
			return TaskPatch{}, err
		}
	}

	return patch, nil
}

func decodePatchObject(data []byte, allowed ...string) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, NewValidationError("", "Invalid update!", ErrInvalidUpdate)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, NewValidationError("", "Invalid update!", ErrInvalidUpdate)
	}

	allow := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allow[name] = struct{}{}
	}

	// Sorted so the reported key is deterministic.
	keys := make([]string, 0, len(fields))
	for name := range fields {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	for _, name := range keys {
		if _, ok := allow[name]; !ok {
			return nil, NewValidationError(name, "cannot be updated", ErrInvalidUpdate)
		}
	}

	return fields, nil
}

func decodeField[T any](name string, raw json.RawMessage) (*T, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, NewValidationError(name, "cannot be null", nil)
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, NewValidationError(name, "has the wrong type", nil)
	}
	return &v, nil
}
