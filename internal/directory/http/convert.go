package http

import (
	"github.com/aussiebroadwan/linkbot/internal/directory/domain"
	"github.com/aussiebroadwan/linkbot/pkg/linksdk"
)

func toEntry(e domain.DirectoryEntry) linksdk.Entry {
	out := linksdk.Entry{
		ID:         e.ID,
		Name:       e.Name,
		StartToken: e.StartToken,
		DisplayURL: e.DisplayURL,
		Role:       e.Role.String(),
	}
	if e.ExternalID != nil {
		id := *e.ExternalID
		out.ExternalID = &id
	}
	return out
}

func toEntries(es []domain.DirectoryEntry) []linksdk.Entry {
	out := make([]linksdk.Entry, 0, len(es))
	for _, e := range es {
		out = append(out, toEntry(e))
	}
	return out
}
