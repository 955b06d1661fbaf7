package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := New()
	require.False(t, id.IsZero())

	parsed, err := Parse(" " + id.String() + " ")
	require.NoError(t, err)
	require.Equal(t, id, parsed)

	for _, bad := range []string{"", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
		_, err := Parse(bad)
		require.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestOrdering(t *testing.T) {
	at := time.Now()
	a := NewAt(at)
	b := NewAt(at)
	c := NewAt(at.Add(time.Second))

	require.Less(t, a.String(), b.String())
	require.Less(t, b.String(), c.String())
}

func TestTime(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000).UTC()
	require.True(t, NewAt(at).Time().Equal(at))
	require.True(t, ID("bogus").Time().IsZero())
}
