package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSelected(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	ids := withSelected(nil, first)
	require.Equal(t, []string{first.String()}, ids)

	ids = withSelected(ids, second)
	require.Equal(t, []string{first.String(), second.String()}, ids)

	// re-selecting the same influencer must not grow the list
	again := withSelected(ids, first)
	assert.Equal(t, ids, again)
	assert.Len(t, again, 2)
}
