package model

import (
	"encoding/json"
	"testing"

	"github.com/aknur111/blog-web-site/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func rawPatch(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParsePostPatch(t *testing.T) {
	t.Run("plain fields go to Set", func(t *testing.T) {
		patch, err := ParsePostPatch(rawPatch(t, `{"content":"hi2","status":"draft","tags":["go","db"]}`))

		require.NoError(t, err)
		assert.Equal(t, bson.M{"content": "hi2", "status": "draft", "tags": []string{"go", "db"}}, patch.Set)
		assert.Empty(t, patch.Operations())
	})

	t.Run("null means absent", func(t *testing.T) {
		patch, err := ParsePostPatch(rawPatch(t, `{"content":null,"inc_views":null,"push_tag":null}`))

		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})

	t.Run("empty string is present", func(t *testing.T) {
		patch, err := ParsePostPatch(rawPatch(t, `{"media_url":""}`))

		require.NoError(t, err)
		assert.Equal(t, bson.M{"media_url": ""}, patch.Set)
	})

	t.Run("operators in fixed order", func(t *testing.T) {
		patch, err := ParsePostPatch(rawPatch(t, `{"inc_views":-3,"pull_tag":"old","push_tag":"new"}`))

		require.NoError(t, err)
		assert.Empty(t, patch.Set)
		assert.Equal(t, []bson.M{
			{"$addToSet": bson.M{"tags": "new"}},
			{"$pull": bson.M{"tags": "old"}},
			{"$inc": bson.M{"views": int64(-3)}},
		}, patch.Operations())
	})

	t.Run("unknown keys ignored", func(t *testing.T) {
		patch, err := ParsePostPatch(rawPatch(t, `{"author_id":"mallory","views":99}`))

		require.NoError(t, err)
		assert.True(t, patch.Empty())
	})

	bad := map[string]string{
		"content not a string":  `{"content":5}`,
		"tags not a list":       `{"tags":"go"}`,
		"tags with numbers":     `{"tags":[1,2]}`,
		"inc_views fractional":  `{"inc_views":1.5}`,
		"inc_views string":      `{"inc_views":"5"}`,
		"push_tag not a string": `{"push_tag":["a"]}`,
	}
	for name, body := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePostPatch(rawPatch(t, body))
			assert.True(t, errs.IsValidation(err))
		})
	}
}

func TestListQueryFilter(t *testing.T) {
	assert.Equal(t, bson.M{}, ListQuery{}.Filter())

	assert.Equal(t, bson.M{
		"tags":      "go",
		"author_id": "alice",
		"$text":     bson.M{"$search": "mongo driver"},
	}, ListQuery{Tag: "go", Author: "alice", Q: "mongo driver"}.Filter())
}

func TestParseReactionKind(t *testing.T) {
	for _, s := range []string{"like", "dislike", "love"} {
		kind, err := ParseReactionKind(s)
		require.NoError(t, err)
		assert.Equal(t, ReactionKind(s), kind)
	}

	for _, s := range []string{"", "Like", "angry"} {
		_, err := ParseReactionKind(s)
		assert.True(t, errs.IsValidation(err), s)
	}
}
