package models

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "message", Reason: "required"}
	assert.Equal(t, "invalid message: required", err.Error())
}

func TestKnowledgeLoadErrorUnwraps(t *testing.T) {
	err := &KnowledgeLoadError{Document: "policies.json", Err: fs.ErrNotExist}
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "policies.json")
}

func TestParseIntentClosedSet(t *testing.T) {
	for _, it := range KnownIntents {
		assert.Equal(t, it, ParseIntent(string(it)))
	}
	assert.Equal(t, IntentGeneral, ParseIntent("totally_made_up"))
	assert.Equal(t, IntentGeneral, ParseIntent(""))
}

func TestKnownIntentsComplete(t *testing.T) {
	assert.Len(t, KnownIntents, 10)
	seen := map[Intent]bool{}
	for _, it := range KnownIntents {
		assert.False(t, seen[it], "duplicate intent %s", it)
		seen[it] = true
	}
}
