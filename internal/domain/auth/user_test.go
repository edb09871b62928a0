package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"first and last", User{FirstName: "Ada", LastName: "Lovelace", Name: "ada"}, "Ada Lovelace"},
		{"additional full_name", User{Name: "ada", Additional: AdditionalInfo{"full_name": "Ada L"}}, "Ada L"},
		{"name fallback", User{Name: "ada", Email: "ada@example.com"}, "ada"},
		{"email fallback", User{Email: "ada@example.com"}, "ada@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.FullName())
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	u := User{FirstName: "Ada", Name: "ada", Additional: AdditionalInfo{"display_name": "Countess"}}
	assert.Equal(t, "Countess", u.DisplayName())

	u.Additional = nil
	assert.Equal(t, "Ada", u.DisplayName())
}

func TestUser_Initials(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "AL", u.Initials())

	single := User{Name: "ada"}
	assert.Equal(t, "A", single.Initials())
}

func TestUser_IsAdmin(t *testing.T) {
	assert.True(t, (&User{Authority: AuthorityAdmin}).IsAdmin())
	assert.True(t, (&User{Authority: AuthoritySysAdmin}).IsAdmin())
	assert.True(t, (&User{Authority: AuthorityTenantAdmin}).IsAdmin())
	assert.False(t, (&User{Authority: AuthorityUser}).IsAdmin())
	assert.False(t, (&User{Authority: AuthorityCustomerUser}).IsAdmin())
}

func TestUser_HasPermission(t *testing.T) {
	u := &User{Permissions: []string{"DEVICE_READ", "REPORT_READ"}}

	assert.True(t, u.HasPermission("DEVICE_READ"))
	assert.False(t, u.HasPermission("DEVICE_WRITE"))

	var nilUser *User
	assert.False(t, nilUser.HasPermission("DEVICE_READ"))
}

func TestUser_Preferences(t *testing.T) {
	u := User{Additional: AdditionalInfo{"language": "tr", "theme": "dark"}}
	assert.Equal(t, "tr", u.Language())
	assert.Equal(t, "dark", u.Theme())

	plain := User{}
	assert.Equal(t, "en", plain.Language())
	assert.Equal(t, "light", plain.Theme())
}
