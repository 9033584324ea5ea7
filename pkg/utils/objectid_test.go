package utils

import (
	"testing"

	"github.com/aknur111/blog-web-site/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestParseID(t *testing.T) {
	t.Run("valid hex", func(t *testing.T) {
		want := bson.NewObjectID()

		got, err := ParseID(want.Hex())

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("uppercase hex is accepted", func(t *testing.T) {
		got, err := ParseID("507F1F77BCF86CD799439011")

		require.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", got.Hex())
	})

	bad := map[string]string{
		"empty":       "",
		"too short":   "507f1f77bcf86cd79943901",
		"too long":    "507f1f77bcf86cd7994390111",
		"not hex":     "zzzzzzzzzzzzzzzzzzzzzzzz",
		"plain words": "bad-id",
	}
	for name, input := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParseID(input)

			require.Error(t, err)
			assert.True(t, errs.IsInvalidID(err))
			assert.False(t, errs.IsNotFound(err))
		})
	}
}

func TestParseNamedID(t *testing.T) {
	_, err := ParseNamedID("nope", "post_id")

	require.Error(t, err)
	assert.Equal(t, "invalid post_id", err.Error())
}
