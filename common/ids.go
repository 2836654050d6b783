package common

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CanonicalID converts an identifier to the single string form used for storage and comparison. Identifiers may
// arrive as typed references (uuid.UUID, *uuid.UUID, uuid.NullUUID, raw 16-byte values or anything implementing
// fmt.Stringer) or as plain strings. Strings that parse as UUIDs are reformatted so that every representation of
// the same UUID yields the same result. Absent identifiers produce an InvalidArgumentError.
func CanonicalID(id interface{}) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", NewInvalidArgumentError("identifier is missing")
	case string:
		return canonicalString(v)
	case *string:
		if v == nil {
			return "", NewInvalidArgumentError("identifier is missing")
		}
		return canonicalString(*v)
	case uuid.UUID:
		return canonicalUUID(v)
	case *uuid.UUID:
		if v == nil {
			return "", NewInvalidArgumentError("identifier is missing")
		}
		return canonicalUUID(*v)
	case uuid.NullUUID:
		if !v.Valid {
			return "", NewInvalidArgumentError("identifier is missing")
		}
		return canonicalUUID(v.UUID)
	case []byte:
		if len(v) == 16 {
			u, err := uuid.FromBytes(v)
			if err != nil {
				return "", NewInvalidArgumentError("invalid identifier: %s", err.Error())
			}
			return canonicalUUID(u)
		}
		return canonicalString(string(v))
	case fmt.Stringer:
		return canonicalString(v.String())
	default:
		return "", NewInvalidArgumentError("unsupported identifier type: %T", id)
	}
}

// MustCanonicalID is like CanonicalID, but returns an empty string for identifiers that can't be converted.
func MustCanonicalID(id interface{}) string {
	canonical, err := CanonicalID(id)
	if err != nil {
		return ""
	}
	return canonical
}

// SameID returns true if both identifiers are present and refer to the same thing.
func SameID(a, b interface{}) bool {
	ca, err := CanonicalID(a)
	if err != nil {
		return false
	}
	cb, err := CanonicalID(b)
	if err != nil {
		return false
	}
	return ca == cb
}

func canonicalString(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", NewInvalidArgumentError("identifier is missing")
	}
	if u, err := uuid.Parse(trimmed); err == nil {
		return canonicalUUID(u)
	}
	return trimmed, nil
}

func canonicalUUID(u uuid.UUID) (string, error) {
	if u == uuid.Nil {
		return "", NewInvalidArgumentError("identifier is missing")
	}
	return u.String(), nil
}
