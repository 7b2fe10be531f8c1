package model

import (
	"regexp"
	"strings"
	"time"
)

// Role is the access level of a user.
type Role string

const (
	RoleNone       Role = "none"
	RoleDisabled   Role = "disabled"
	RoleUser       Role = "user"
	RoleManager    Role = "manager"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleDisabled, RoleUser, RoleManager, RoleSuperAdmin:
		return true
	}
	return false
}

// AccountStatus is the lifecycle state of a tenant account.
type AccountStatus string

const (
	AccountPending    AccountStatus = "pending"
	AccountActive     AccountStatus = "active"
	AccountTerminated AccountStatus = "terminated"
)

// Account is the tenant a user belongs to.
type Account struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status AccountStatus `json:"status"`
}

// User represents an authenticated account member
type User struct {
	ID              string     `json:"id"`
	AccountID       string     `json:"accountId"`
	Email           string     `json:"email"`
	Username        string     `json:"username,omitempty"`
	Role            Role       `json:"role"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
	Account         Account    `json:"account"`
}

// IsSuperAdmin reports whether the user has the superadmin role.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

// MyInfo is the profile summary for the signed-in user.
type MyInfo struct {
	UserID    string  `json:"userId"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
	JoinedAt  *string `json:"joinedAt"`
	CreatedAt *string `json:"createdAt"`
	LastLogin string  `json:"lastLogin"`
}

// PersonStatus classifies a tracked person.
type PersonStatus string

const (
	PersonActive     PersonStatus = "active"
	PersonUnassigned PersonStatus = "unassigned"
	PersonIgnored    PersonStatus = "ignored"
)

// Person is a tracked team member as returned by the people endpoint.
type Person struct {
	ID         string                 `json:"id"`
	AccountID  string                 `json:"accountId"`
	Name       string                 `json:"name,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Email      string                 `json:"email,omitempty"`
	Timezone   string                 `json:"timezone,omitempty"`
	Color      string                 `json:"color,omitempty"`
	Status     PersonStatus           `json:"status,omitempty"`
	ArchivedAt *time.Time             `json:"archivedAt,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// DisplayName falls back to the email, then the id.
func (p Person) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// BuildInfo describes the deployed server build.
type BuildInfo struct {
	AppName        string  `json:"appname"`
	Version        string  `json:"version"`
	FullVersion    string  `json:"fullVersion"`
	Message        string  `json:"message"`
	Author         string  `json:"author"`
	Branch         string  `json:"branch"`
	Environment    string  `json:"environment"`
	DeploymentTime string  `json:"deploymentTime"`
	PipelineURL    *string `json:"pipelineUrl"`
}

// SystemInfo is the payload of the system-info endpoint.
type SystemInfo struct {
	BuildInfo   *BuildInfo `json:"buildInfo"`
	ServerTime  string     `json:"serverTime"`
	Environment string     `json:"environment"`
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks the trimmed address against the signup pattern.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
