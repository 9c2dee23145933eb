package command

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeToken_RoundTrip(t *testing.T) {
	id, err := EncodeToken("info", "char_103_angel", 1, 6, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, "infoඞchar_103_angelඞ1ඞ6ඞ0ඞ2", id)

	tok, err := ParseToken(id)
	require.NoError(t, err)
	assert.Equal(t, "info", tok.Command())
	assert.Equal(t, []string{"char_103_angel", "1", "6", "0", "2"}, tok.Fields())
	assert.Equal(t, id, tok.String())

	view, err := tok.Int(2)
	require.NoError(t, err)
	assert.Equal(t, 1, view)
	assert.Equal(t, []int{0, 2}, tok.Ints(4))
}

func TestEncodeToken_PreservesEveryField(t *testing.T) {
	cases := [][]any{
		{"stage", "abandoned mine", 0},
		{"char_1037_amiya3", 2, 9},
		{"", "", 0},
		{"wolfpack's gorge", -1},
	}
	for _, fields := range cases {
		id, err := EncodeToken("cc", fields...)
		require.NoError(t, err)

		tok, err := ParseToken(id)
		require.NoError(t, err)
		assert.Equal(t, "cc", tok.Command())
		require.Equal(t, len(fields)+1, tok.Len())
		for i, f := range fields {
			assert.Equal(t, fmt.Sprint(f), tok.Field(i+1))
		}
	}
}

func TestToken_SelectSentinelResolvesFromValues(t *testing.T) {
	id, err := EncodeToken("info", "char_002_amiya", TokenSelect, 0, TokenSelect)
	require.NoError(t, err)

	tok, err := ParseToken(id)
	require.NoError(t, err)
	tok = tok.WithValues([]string{"2"})

	assert.Equal(t, "char_002_amiya", tok.Field(1))
	assert.Equal(t, "2", tok.Field(2))
	assert.Equal(t, TokenSelect, tok.Raw(2))
	assert.Equal(t, "0", tok.Field(3))
	assert.Equal(t, []int{2}, tok.Ints(4))

	unresolved, _ := ParseToken(id)
	assert.Equal(t, "", unresolved.Field(2))
	assert.Equal(t, 7, unresolved.IntOr(2, 7))
}

func TestEncodeToken_Rejects(t *testing.T) {
	_, err := EncodeToken("cc", "badඞkey")
	assert.ErrorIs(t, err, ErrTokenDelimiter)

	_, err = EncodeToken("cc", strings.Repeat("x", MaxTokenLength))
	assert.ErrorIs(t, err, ErrTokenTooLong)

	_, err = EncodeToken("")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestEncodeToken_CountsCharactersNotBytes(t *testing.T) {
	// 1 + 1 + 98 characters, but far more than 100 bytes.
	id, err := EncodeToken("c", strings.Repeat("é", 98))
	require.NoError(t, err)
	assert.Greater(t, len(id), MaxTokenLength)
}

func TestParseToken_Empty(t *testing.T) {
	_, err := ParseToken("")
	assert.ErrorIs(t, err, ErrTokenEmpty)
	_, err = ParseToken("ඞstage")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	tok, err := ParseToken("help")
	require.NoError(t, err)
	assert.Nil(t, tok.Fields())
	_, err = tok.Int(1)
	assert.ErrorIs(t, err, ErrTokenField)
}
