package linksdk

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Entry is a user as seen by the directory. ExternalID is nil until the
// user registers.
type Entry struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	StartToken string `json:"start_token,omitempty"`
	DisplayURL string `json:"display_url,omitempty"`
	Role       string `json:"role"`
	ExternalID *int64 `json:"external_id,omitempty"`
}

// RegisterResponse is returned by POST /v1/register.
type RegisterResponse struct {
	Message string `json:"message"`
	Entry   Entry  `json:"entry"`
}

// LookupResponse is returned by GET /v1/directory/{external_id}. Unknown
// identities are reported with Known=false rather than an error.
type LookupResponse struct {
	ExternalID int64  `json:"external_id"`
	Known      bool   `json:"known"`
	Admin      bool   `json:"admin"`
	Name       string `json:"name,omitempty"`
}

// CreateUserRequest is the body of POST /v1/admin/users.
type CreateUserRequest struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type UsersResponse struct {
	Users []Entry `json:"users"`
}

type Link struct {
	ExternalID int64 `json:"external_id"`
	UserID     int64 `json:"user_id"`
}

type LinksResponse struct {
	Links []Link `json:"links"`
}

// RefreshResponse reports the directory size after a rebuild.
type RefreshResponse struct {
	Entries int `json:"entries"`
}

// HealthResponse is returned by /livez and /readyz. Checks is only set by
// /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database  string `json:"database"`
	Directory string `json:"directory"`
}
