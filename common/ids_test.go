package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testUUID = "8d5ac8a4-0e0a-4f4f-9a7c-3f6f0c1d2e3b"

type stringer string

func (s stringer) String() string {
	return string(s)
}

func TestCanonicalIDRepresentations(t *testing.T) {
	assert := assert.New(t)

	typed := uuid.MustParse(testUUID)
	nullable := uuid.NullUUID{UUID: typed, Valid: true}
	raw := typed[:]

	for _, id := range []interface{}{
		testUUID,
		strings.ToUpper(testUUID),
		"  " + testUUID + "  ",
		"urn:uuid:" + testUUID,
		typed,
		&typed,
		nullable,
		raw,
		stringer(testUUID),
	} {
		actual, err := CanonicalID(id)
		assert.NoErrorf(err, "unexpected error for %#v", id)
		assert.Equalf(testUUID, actual, "unexpected canonical form for %#v", id)
	}
}

func TestCanonicalIDPlainString(t *testing.T) {
	assert := assert.New(t)

	actual, err := CanonicalID(" sarahr ")
	assert.NoError(err)
	assert.Equal("sarahr", actual)

	actual, err = CanonicalID("507f1f77bcf86cd799439011")
	assert.NoError(err)
	assert.Equal("507f1f77bcf86cd799439011", actual)
}

func TestCanonicalIDMissing(t *testing.T) {
	assert := assert.New(t)

	var nilString *string
	var nilUUID *uuid.UUID
	for _, id := range []interface{}{
		nil,
		"",
		"   ",
		nilString,
		nilUUID,
		uuid.Nil,
		uuid.NullUUID{},
		42,
	} {
		_, err := CanonicalID(id)
		assert.Errorf(err, "no error for %#v", id)
		assert.Truef(IsInvalidArgument(err), "unexpected error type for %#v", id)
	}
}

func TestSameID(t *testing.T) {
	assert := assert.New(t)

	typed := uuid.MustParse(testUUID)
	assert.True(SameID(typed, testUUID))
	assert.True(SameID(testUUID, typed))
	assert.True(SameID("u1", "u1"))
	assert.False(SameID("u1", "u2"))
	assert.False(SameID(nil, nil))
	assert.False(SameID("", ""))
}

func TestMustCanonicalID(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(testUUID, MustCanonicalID(uuid.MustParse(testUUID)))
	assert.Equal("", MustCanonicalID(nil))
}
