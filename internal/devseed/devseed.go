// Package devseed populates a development environment with one sample
// principal of each kind so every login path can be exercised by hand.
// Never run outside dev mode.
package devseed

import (
	"context"
	"log/slog"

	domainauth "github.com/parkops/reserve-ui-api/internal/domain/auth"
	apperrors "github.com/parkops/reserve-ui-api/internal/errors"
	"github.com/parkops/reserve-ui-api/internal/ports"
)

var samplePrincipals = []ports.EnrollInput{
	{Kind: domainauth.KindStaff, ID: "STAFF-001", DisplayName: "陈伟", Role: "监测员", Password: "staff123"},
	{Kind: domainauth.KindStaff, ID: "STAFF-002", DisplayName: "李娜", Role: "预约管理员", Password: "staff123"},
	{Kind: domainauth.KindVisitor, ID: "VI-0001", DisplayName: "王芳", Password: "visitor123"},
	{Kind: domainauth.KindEnforcer, ID: "LE-0042", DisplayName: "张强", Password: "enforcer123"},
	{Kind: domainauth.KindResearcher, ID: "RE-1000", DisplayName: "刘洋", Password: "researcher123"},
}

// Seed enrolls the sample principals, skipping ones that already exist so
// repeated dev starts stay quiet.
func Seed(ctx context.Context, store ports.CredentialStore, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	seeded := 0
	for _, in := range samplePrincipals {
		if err := store.Enroll(ctx, in); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return err
		}
		seeded++
	}

	if seeded > 0 {
		logger.InfoContext(ctx, "seeded dev principals", "count", seeded)
	}
	return nil
}
