package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeccakHash32(t *testing.T) {
	h := KeccakHash32("dvault")
	require.Equal(t, 32, len(h))
	require.Equal(t, h, KeccakHash32Bytes([]byte("dvault")))

	other := KeccakHash32("dvault2")
	require.NotEqual(t, h, other)
}
