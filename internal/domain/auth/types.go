// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of transport/adapter concerns.
package auth

// Authority represents a user's application-wide authority level.
// Keep string form for easy persistence. Valid values are defined as
// constants below.
type Authority string

const (
	AuthorityAdmin        Authority = "ADMIN"
	AuthorityUser         Authority = "USER"
	AuthorityModerator    Authority = "MODERATOR"
	AuthoritySysAdmin     Authority = "SYS_ADMIN"
	AuthorityTenantAdmin  Authority = "TENANT_ADMIN"
	AuthorityCustomerUser Authority = "CUSTOMER_USER"
)

// AdditionalInfo is a free-form bag of provider-specific user attributes.
// Well-known keys are exposed through helpers on User; everything else is
// carried through untouched.
type AdditionalInfo map[string]any

// User represents the authenticated identity as returned by the auth API.
// It is owned by the session service; the token manager holds a serialized
// copy for persistence only.
type User struct {
	ID          int64          `json:"id,omitempty"`
	UserID      string         `json:"user_id"`
	UserType    string         `json:"user_type,omitempty"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	IsActive    bool           `json:"is_active"`
	IsVerified  bool           `json:"is_verified"`
	LastLoginAt int64          `json:"last_login_at,omitempty"`
	CompanyID   string         `json:"company_id,omitempty"`
	CompanyName string         `json:"company_name,omitempty"`
	FirstName   string         `json:"first_name,omitempty"`
	LastName    string         `json:"last_name,omitempty"`
	TenantID    string         `json:"tenant_id,omitempty"`
	CustomerID  string         `json:"customer_id,omitempty"`
	Authority   Authority      `json:"authority,omitempty"`
	Permissions []string       `json:"permissions"`
	Additional  AdditionalInfo `json:"additional_info,omitempty"`
}

// TokenRecord is the persisted bearer token state. ExpiresAt is always an
// absolute unix timestamp in seconds, computed at storage time, never a
// relative duration.
type TokenRecord struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresAt int64  `json:"expires_at"`
}

// SessionPayload is the canonical result of a successful login or refresh,
// normalized from the provider response shape.
type SessionPayload struct {
	Token        string
	RefreshToken string
	ExpiresIn    int64
	TokenType    string
	User         *User
}

// Credentials carries an email/password login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MicrosoftCredentials carries the provider payload for a Microsoft login.
type MicrosoftCredentials struct {
	IDToken     string `json:"id_token,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"`
}
