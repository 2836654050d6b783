package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"

	"github.com/cyverse-de/notification-view/common"
	"github.com/pkg/errors"
)

// RecipientWildcard is the token stored in place of a recipient list when a notification is addressed to every
// user.
const RecipientWildcard = "all"

// Recipients describes who a notification is addressed to: either an explicit set of user identifiers or every
// user, never both. The zero value addresses no one.
type Recipients struct {
	all bool
	ids []string
}

// AllRecipients returns recipients that address every user.
func AllRecipients() Recipients {
	return Recipients{all: true}
}

// RecipientList returns recipients that address exactly the given users.
func RecipientList(ids ...string) Recipients {
	if len(ids) == 0 {
		return Recipients{}
	}
	return Recipients{ids: append([]string(nil), ids...)}
}

// IsWildcard returns true if every user is an addressee.
func (r Recipients) IsWildcard() bool {
	return r.all
}

// IsEmpty returns true if nobody is an addressee.
func (r Recipients) IsEmpty() bool {
	return !r.all && len(r.ids) == 0
}

// IDs returns a copy of the explicit recipient identifiers.
func (r Recipients) IDs() []string {
	return append([]string(nil), r.ids...)
}

// Includes returns true if the given user is an addressee, comparing identifiers in their canonical forms.
func (r Recipients) Includes(userID interface{}) bool {
	if r.all {
		return true
	}
	for _, id := range r.ids {
		if common.SameID(id, userID) {
			return true
		}
	}
	return false
}

// Canonical returns a copy of the recipients with every identifier converted to its canonical form.
func (r Recipients) Canonical() (Recipients, error) {
	if r.all || len(r.ids) == 0 {
		return r, nil
	}
	ids := make([]string, len(r.ids))
	for i, id := range r.ids {
		canonical, err := common.CanonicalID(id)
		if err != nil {
			return Recipients{}, errors.Wrapf(err, "invalid recipient at position %d", i)
		}
		ids[i] = canonical
	}
	return Recipients{ids: ids}, nil
}

// MarshalJSON encodes the recipients as the wildcard token, an array of identifiers or null.
func (r Recipients) MarshalJSON() ([]byte, error) {
	switch {
	case r.all:
		return json.Marshal(RecipientWildcard)
	case len(r.ids) == 0:
		return []byte("null"), nil
	default:
		return json.Marshal(r.ids)
	}
}

// UnmarshalJSON decodes the recipients from the wildcard token, an array of identifiers or null.
func (r *Recipients) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Recipients{}
		return nil
	}

	if trimmed[0] == '"' {
		var token string
		if err := json.Unmarshal(trimmed, &token); err != nil {
			return errors.Wrap(err, "unable to decode recipients")
		}
		if token != RecipientWildcard {
			return errors.Errorf("unrecognized recipient token `%s`", token)
		}
		*r = AllRecipients()
		return nil
	}

	var ids []string
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return errors.Wrap(err, "unable to decode recipients")
	}
	*r = RecipientList(ids...)
	return nil
}

// Value stores the recipients in a JSONB column, using NULL when nobody is an addressee.
func (r Recipients) Value() (driver.Value, error) {
	if r.IsEmpty() {
		return nil, nil
	}
	encoded, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

// Scan loads the recipients from a JSONB column.
func (r *Recipients) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = Recipients{}
		return nil
	case []byte:
		return r.UnmarshalJSON(v)
	case string:
		return r.UnmarshalJSON([]byte(v))
	default:
		return errors.Errorf("unable to scan recipients from %T", src)
	}
}
