package drive

import (
	"context"

	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// NewService creates a Drive API service authenticated with a service
// account JSON key file, scoped to full Drive access.
func NewService(ctx context.Context, credentialsFile string) (*gdrive.Service, error) {
	return gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveScope),
	)
}

// NewServiceWithTokenSource creates a Drive API service from an existing
// OAuth token source. Used when the caller manages credentials itself.
func NewServiceWithTokenSource(ctx context.Context, ts oauth2.TokenSource) (*gdrive.Service, error) {
	return gdrive.NewService(ctx, option.WithTokenSource(ts))
}
