package idx_test

import (
	"testing"

	"github.com/meetcore/authority/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := idx.New()
	require.NotEmpty(t, id.String())
	require.NotEqual(t, idx.Zero, id)
}

func TestNewProducesDistinctIDs(t *testing.T) {
	a := idx.New()
	b := idx.New()
	require.NotEqual(t, a, b)
}

func TestZeroStringIsEmpty(t *testing.T) {
	require.Equal(t, "", idx.Zero.String())
}
