package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingFieldsUsesWireNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(AskRequest{})
	require.Error(t, err)
	assert.Equal(t, []string{"question"}, MissingFields(err))

	err = v.Struct(HistoryQuery{})
	require.Error(t, err)
	assert.Equal(t, []string{"conversationId"}, MissingFields(err))
}

func TestMissingFieldsIgnoresOtherViolations(t *testing.T) {
	v := NewValidator()
	id := uint64(1)
	limit := 500

	err := v.Struct(HistoryQuery{ConversationID: &id, Limit: &limit})
	require.Error(t, err)
	assert.Nil(t, MissingFields(err))

	assert.NoError(t, v.Struct(HistoryQuery{ConversationID: &id}))
}
