// Package identity 对接外部身份提供方（删除账号）。
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"used-market/internal/core/config"
)

type Provider interface {
	DeleteUser(ctx context.Context, uid string) error
}

type Firebase struct {
	client *fbauth.Client
}

func NewFirebase(ctx context.Context, c config.Identity) (*Firebase, error) {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	var fc *firebase.Config
	if c.ProjectID != "" {
		fc = &firebase.Config{ProjectID: c.ProjectID}
	}
	app, err := firebase.NewApp(ctx, fc, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

// Local 不接身份提供方时使用：只删本地记录
type Local struct{}

func (Local) DeleteUser(context.Context, string) error { return nil }

func New(ctx context.Context, c config.Identity) (Provider, error) {
	switch c.Provider {
	case "firebase":
		return NewFirebase(ctx, c)
	case "", "none":
		return Local{}, nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", c.Provider)
	}
}
