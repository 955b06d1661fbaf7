/*
Package linksdk is a client for the linkbot directory service.

The chat adapter uses it to redeem start tokens and to resolve inbound
identities:

	client := linksdk.NewClient("http://linkbot:8080")

	entry, err := client.Register(ctx, startToken, chatID)
	switch {
	case errors.Is(err, linksdk.ErrUnknownToken):
		// reply "Could not find the user."
	case errors.Is(err, linksdk.ErrTokenConflict):
		// token already used by someone else
	}

	res, err := client.Lookup(ctx, chatID)
	if res.Admin {
		// allow privileged commands
	}

Operator endpoints require the admin token:

	admin := linksdk.NewClient(baseURL, linksdk.WithAdminToken(token))
	user, err := admin.CreateUser(ctx, "alice", linksdk.RoleUser)

Errors returned by the service are *APIError values and match the
predefined errors with errors.Is.
*/
package linksdk
