package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewingProfileValidate(t *testing.T) {
	p := &ViewingProfile{UserID: 1, Name: "Kids Room", Type: ProfileTypeKids}
	require.NoError(t, p.Validate())
}

func TestViewingProfileRequiresName(t *testing.T) {
	p := &ViewingProfile{UserID: 1, Type: ProfileTypeAdult}
	assert.Error(t, p.Validate())
}

func TestViewingProfileRejectsUnknownType(t *testing.T) {
	p := &ViewingProfile{UserID: 1, Name: "Guest", Type: "toddler"}
	assert.Error(t, p.Validate())
}
