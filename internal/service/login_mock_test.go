package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stardyn/authkit/config"
	domainauth "github.com/stardyn/authkit/internal/domain/auth"
	"github.com/stardyn/authkit/internal/mocks"
	"github.com/stardyn/authkit/internal/ports"
)

func TestPerformLoginRequestShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)

	cfg := config.Default()
	cfg.SiteKey = "site-key"
	h := NewLoginHandler(cfg, transport, NewPayloadParser(cfg.Payload), slog.Default())

	transport.EXPECT().
		Post(gomock.Any(), cfg.LoginEndpoint(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, body any) (ports.Response, error) {
			fields, ok := body.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, "ada@example.com", fields["email"])
			assert.NotEqual(t, "secret", fields["password"], "password must be hashed")
			return ports.Response{Success: true, Data: map[string]any{"token": "tok"}}, nil
		})

	payload, err := h.PerformLogin(context.Background(), domainauth.Credentials{
		Email:    "ada@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", payload.Token)
}

func TestPerformLogoutPostsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	transport := mocks.NewMockTransport(ctrl)

	cfg := config.Default()
	h := NewLoginHandler(cfg, transport, NewPayloadParser(cfg.Payload), slog.Default())

	transport.EXPECT().
		Post(gomock.Any(), cfg.LogoutEndpoint(), gomock.Nil()).
		Return(ports.Response{Success: true}, nil)

	require.NoError(t, h.PerformLogout(context.Background()))
}
