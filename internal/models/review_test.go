package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewAuthor_Identified(t *testing.T) {
	author := IdentifiedAuthor("user-1")

	assert.False(t, author.IsAnonymous())

	id, ok := author.UserID()
	require.True(t, ok)
	assert.Equal(t, "user-1", id)

	col := author.ColumnValue()
	require.NotNil(t, col)
	assert.Equal(t, "user-1", *col)
}

func TestReviewAuthor_Anonymous(t *testing.T) {
	author := AnonymousAuthor()

	assert.True(t, author.IsAnonymous())

	_, ok := author.UserID()
	assert.False(t, ok)
	assert.Nil(t, author.ColumnValue())
}

func TestAuthorOf_RoundTrip(t *testing.T) {
	identified := &Review{AuthorID: IdentifiedAuthor("user-1").ColumnValue()}
	assert.False(t, AuthorOf(identified).IsAnonymous())

	anonymous := &Review{AuthorID: AnonymousAuthor().ColumnValue()}
	assert.True(t, AuthorOf(anonymous).IsAnonymous())
}
