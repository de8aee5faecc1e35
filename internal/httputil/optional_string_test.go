package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalBody struct {
	Title OptionalString  `json:"Title"`
	Tags  OptionalStrings `json:"Tag"`
	Flag  OptionalBool    `json:"IsDelete"`
}

func TestOptionalFields_Absent(t *testing.T) {
	var body optionalBody
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))

	assert.Nil(t, body.Title.Ptr())
	assert.Nil(t, body.Tags.Ptr())
	assert.Nil(t, body.Flag.Ptr())
}

func TestOptionalFields_Null(t *testing.T) {
	var body optionalBody
	require.NoError(t, json.Unmarshal([]byte(`{"Title":null,"Tag":null,"IsDelete":null}`), &body))

	assert.Equal(t, "", *body.Title.Ptr())
	assert.Equal(t, []string{}, *body.Tags.Ptr())
	assert.False(t, *body.Flag.Ptr())
}

func TestOptionalFields_Values(t *testing.T) {
	var body optionalBody
	require.NoError(t, json.Unmarshal([]byte(`{"Title":"t","Tag":["a","b"],"IsDelete":true}`), &body))

	assert.Equal(t, "t", *body.Title.Ptr())
	assert.Equal(t, []string{"a", "b"}, *body.Tags.Ptr())
	assert.True(t, *body.Flag.Ptr())
}

func TestOptionalStrings_SingleString(t *testing.T) {
	var body optionalBody
	require.NoError(t, json.Unmarshal([]byte(`{"Tag":"solo"}`), &body))
	assert.Equal(t, []string{"solo"}, *body.Tags.Ptr())
}

func TestOptionalFields_WrongType(t *testing.T) {
	var body optionalBody
	assert.Error(t, json.Unmarshal([]byte(`{"Title":5}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"Tag":{"a":1}}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"IsDelete":"yes"}`), &body))
}
