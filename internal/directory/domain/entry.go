package domain

import (
	"fmt"
	"net/url"
)

// URLBuilder formats the public link a user follows to register their
// external identity using their start token.
type URLBuilder func(startToken string) string

// TelegramStartURL returns a URLBuilder producing t.me deep links for bot.
func TelegramStartURL(bot string) URLBuilder {
	return func(startToken string) string {
		return fmt.Sprintf("https://t.me/%s?start=%s", bot, url.QueryEscape(startToken))
	}
}

// DirectoryEntry is the merged, cache-resident view of a user and its
// optional identity link. It is rebuilt from the store and never mutated in
// place.
type DirectoryEntry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	StartToken string `json:"start_token"`
	DisplayURL string `json:"display_url"`
	Role       Role   `json:"role"`
	ExternalID *int64 `json:"external_id,omitempty"`
}

// NewDirectoryEntry merges a user row with its link.
func NewDirectoryEntry(u UserWithLink, urls URLBuilder) DirectoryEntry {
	entry := DirectoryEntry{
		ID:         u.User.ID,
		Name:       u.User.Name,
		StartToken: u.User.StartToken,
		Role:       u.User.Role,
	}
	if urls != nil {
		entry.DisplayURL = urls(u.User.StartToken)
	}
	if u.Link != nil {
		externalID := u.Link.ExternalID
		entry.ExternalID = &externalID
	}
	return entry
}

func (e DirectoryEntry) IsAdmin() bool { return e.Role == RoleAdmin }

// Linked reports whether the entry has an external identity attached.
func (e DirectoryEntry) Linked() bool { return e.ExternalID != nil }

// Clone returns a copy that shares no pointers with e.
func (e DirectoryEntry) Clone() DirectoryEntry {
	if e.ExternalID != nil {
		externalID := *e.ExternalID
		e.ExternalID = &externalID
	}
	return e
}

func (e DirectoryEntry) String() string {
	externalID := "none"
	if e.ExternalID != nil {
		externalID = fmt.Sprintf("%d", *e.ExternalID)
	}
	return fmt.Sprintf("id=%d: name=%s role=%s start_token=%s url=%s external_id=%s",
		e.ID, e.Name, e.Role, e.StartToken, e.DisplayURL, externalID)
}
