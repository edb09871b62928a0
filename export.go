package authkit

import (
	"github.com/stardyn/authkit/config"
	"github.com/stardyn/authkit/internal/domain/access"
	"github.com/stardyn/authkit/internal/domain/auth"
	apperrors "github.com/stardyn/authkit/internal/errors"
	"github.com/stardyn/authkit/internal/guards"
	"github.com/stardyn/authkit/internal/ports"
)

// Aliases for the types consumers interact with, so importing the root
// package is enough for everyday use.

type (
	Config      = config.Config
	User        = auth.User
	Authority   = auth.Authority
	TokenRecord = auth.TokenRecord
	Credentials = auth.Credentials

	Expression = access.Expression

	Route    = guards.Route
	Decision = guards.Decision

	Response         = ports.Response
	Transport        = ports.Transport
	RefreshTransport = ports.RefreshTransport
	Storage          = ports.Storage
	Navigator        = ports.Navigator
	NavigateOptions  = ports.NavigateOptions

	PermissionDeniedError = apperrors.PermissionDeniedError
)

// Permission expression constructors.
var (
	Expr     = access.Expr
	ExprList = access.ExprList
)

// Error classification helpers.
var (
	IsUnauthorized     = apperrors.IsUnauthorized
	IsForbidden        = apperrors.IsForbidden
	IsValidation       = apperrors.IsValidation
	IsNetwork          = apperrors.IsNetwork
	IsConfig           = apperrors.IsConfig
	IsPermissionDenied = apperrors.IsPermissionDenied
)
