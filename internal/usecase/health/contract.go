package health

import "context"

// CredentialsChecker checks that AWS credentials resolve.
type CredentialsChecker interface {
	HealthCheck(ctx context.Context) error
}
