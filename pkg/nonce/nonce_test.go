package nonce_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/courseguard/pkg/nonce"
)

var hex64 = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestGenerate(t *testing.T) {
	t.Parallel()

	n, err := nonce.Generate()
	require.NoError(t, err)
	assert.Len(t, n, 64)
	assert.Regexp(t, hex64, n)
}

func TestGenerate_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool, 1000)
	for range 1000 {
		n := nonce.MustGenerate()
		require.False(t, seen[n], "duplicate nonce %s", n)
		seen[n] = true
	}
}
