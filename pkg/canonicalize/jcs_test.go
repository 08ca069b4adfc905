package canonicalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJCS_Sorting(t *testing.T) {
	input := map[string]any{
		"c": 3,
		"a": 1,
		"b": 2,
	}

	b, err := JCS(input)
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":2,"c":3}`, string(b))
}

func TestJCS_RecursiveSorting(t *testing.T) {
	input := map[string]any{
		"z": map[string]any{
			"y": "foo",
			"x": "bar",
		},
		"a": 1,
	}

	b, err := JCS(input)
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"z":{"x":"bar","y":"foo"}}`, string(b))
}

func TestJCS_NoHTMLEscaping(t *testing.T) {
	b, err := JCS(map[string]string{"name": "<HDMI & USB>"})
	require.NoError(t, err)
	require.Equal(t, `{"name":"<HDMI & USB>"}`, string(b))
}

func TestCanonicalHash_StableAcrossKeyOrder(t *testing.T) {
	type pair struct {
		B int `json:"b"`
		A int `json:"a"`
	}
	h1, err := CanonicalHash(pair{A: 1, B: 2})
	require.NoError(t, err)
	h2, err := CanonicalHash(map[string]int{"a": 1, "b": 2})
	require.NoError(t, err)
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64)
}
