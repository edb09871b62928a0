package auth

import "strings"

// FullName returns the user's full name, preferring explicit first/last
// fields, falling back to the additional-info full_name, then name, then
// email.
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	if full := u.additionalString("full_name"); full != "" {
		return full
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// DisplayName returns the short name used in UI chrome.
func (u *User) DisplayName() string {
	if display := u.additionalString("display_name"); display != "" {
		return display
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Initials returns up to two uppercase initials derived from the full name.
func (u *User) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(u.FullName()) {
		b.WriteString(strings.ToUpper(part[:1]))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// IsAdmin returns true for any admin-level authority.
func (u *User) IsAdmin() bool {
	switch u.Authority {
	case AuthorityAdmin, AuthoritySysAdmin, AuthorityTenantAdmin:
		return true
	}
	return false
}

// HasAuthority returns true if the user holds the given authority exactly.
func (u *User) HasAuthority(a Authority) bool {
	return u.Authority == a
}

// HasPermission returns true if the user's permission set contains p.
func (u *User) HasPermission(p string) bool {
	if u == nil {
		return false
	}
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}
	return false
}

// Language returns the user's preferred language, defaulting to "en".
// Both "lang" and "language" keys are honored for provider compatibility.
func (u *User) Language() string {
	if lang := u.additionalString("lang"); lang != "" {
		return lang
	}
	if lang := u.additionalString("language"); lang != "" {
		return lang
	}
	return "en"
}

// Theme returns the user's preferred theme, defaulting to "light".
func (u *User) Theme() string {
	if theme := u.additionalString("theme"); theme != "" {
		return theme
	}
	return "light"
}

func (u *User) additionalString(key string) string {
	if u == nil || u.Additional == nil {
		return ""
	}
	if v, ok := u.Additional[key].(string); ok {
		return v
	}
	return ""
}
