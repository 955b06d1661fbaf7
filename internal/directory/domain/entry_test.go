package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"user", RoleUser, false},
		{"admin", RoleAdmin, false},
		{"Admin", RoleUser, true},
		{"", RoleUser, true},
		{"superuser", RoleUser, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			require.Equal(t, tt.want, got)
			if tt.wantErr {
				require.True(t, errors.Is(err, ErrUnknownRole))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewDirectoryEntry(t *testing.T) {
	urls := TelegramStartURL("linkbot")

	t.Run("unlinked user", func(t *testing.T) {
		entry := NewDirectoryEntry(UserWithLink{
			User: User{ID: 1, Name: "alice", StartToken: "abc", Role: RoleUser},
		}, urls)

		require.Equal(t, int64(1), entry.ID)
		require.Equal(t, "https://t.me/linkbot?start=abc", entry.DisplayURL)
		require.False(t, entry.Linked())
		require.False(t, entry.IsAdmin())
	})

	t.Run("linked admin", func(t *testing.T) {
		entry := NewDirectoryEntry(UserWithLink{
			User: User{ID: 2, Name: "bob", StartToken: "xyz", Role: RoleAdmin},
			Link: &IdentityLink{ExternalID: 555, UserID: 2},
		}, urls)

		require.True(t, entry.Linked())
		require.Equal(t, int64(555), *entry.ExternalID)
		require.True(t, entry.IsAdmin())
	})

	t.Run("nil url builder leaves url empty", func(t *testing.T) {
		entry := NewDirectoryEntry(UserWithLink{User: User{ID: 3, StartToken: "t"}}, nil)
		require.Empty(t, entry.DisplayURL)
	})
}

func TestDirectoryEntryClone(t *testing.T) {
	externalID := int64(42)
	entry := DirectoryEntry{ID: 1, ExternalID: &externalID}

	clone := entry.Clone()
	*clone.ExternalID = 99

	require.Equal(t, int64(42), *entry.ExternalID)
}
