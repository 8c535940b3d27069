package service

import (
	"quotation_backend/internal/quotation/transport"
)

// UserLimit is what a raw user count resolves to: the exact count for
// on-premise deployments, or the cloud tier bucket containing the count.
// Catalog matching always runs on UserCount itself; Tier records which
// policy bucket it falls in.
type UserLimit struct {
	UserCount int
	Exact     *int
	Tier      *Tier
}

// ResolveUserLimit maps a user count onto the license tier for the given
// deployment type. Pure function of the policy tier table.
func ResolveUserLimit(policy Policy, deploymentType transport.DeploymentType, userCount int) UserLimit {
	if deploymentType == transport.DeploymentOnPremise {
		exact := userCount
		return UserLimit{UserCount: userCount, Exact: &exact}
	}

	for i := range policy.CloudTiers {
		tier := policy.CloudTiers[i]
		open := i == len(policy.CloudTiers)-1 && tier.Max <= 0
		if open || (userCount >= tier.Min && userCount <= tier.Max) {
			return UserLimit{UserCount: userCount, Tier: &tier}
		}
	}

	// Counts below the first tier's floor clamp into the first bucket.
	first := policy.CloudTiers[0]
	return UserLimit{UserCount: userCount, Tier: &first}
}
