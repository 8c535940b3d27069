package service

import (
	"testing"

	"quotation_backend/internal/quotation/transport"
)

func TestResolveUserLimit_OnPremiseReturnsExactCount(t *testing.T) {
	policy := DefaultPolicy()

	for _, count := range []int{1, 17, 300, 2001, 99999} {
		limit := ResolveUserLimit(policy, transport.DeploymentOnPremise, count)
		if limit.Exact == nil {
			t.Fatalf("expected exact limit for %d users, got tier %+v", count, limit.Tier)
		}
		if *limit.Exact != count {
			t.Fatalf("expected exact limit %d, got %d", count, *limit.Exact)
		}
	}
}

func TestResolveUserLimit_CloudBuckets(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		userCount int
		wantMin   int
		wantMax   int
	}{
		{1, 1, 300},
		{300, 1, 300},
		{301, 301, 500},
		{500, 301, 500},
		{501, 501, 1000},
		{1000, 501, 1000},
		{1001, 1001, 1500},
		{1500, 1001, 1500},
		{1501, 1501, 2000},
		{2000, 1501, 2000},
	}

	for _, tc := range cases {
		limit := ResolveUserLimit(policy, transport.DeploymentCloud, tc.userCount)
		if limit.Tier == nil {
			t.Fatalf("expected a tier for %d users, got exact", tc.userCount)
		}
		if limit.Tier.Min != tc.wantMin || limit.Tier.Max != tc.wantMax {
			t.Fatalf("userCount %d: expected [%d,%d], got [%d,%d]",
				tc.userCount, tc.wantMin, tc.wantMax, limit.Tier.Min, limit.Tier.Max)
		}
		if limit.UserCount != tc.userCount {
			t.Fatalf("userCount %d not carried through, got %d", tc.userCount, limit.UserCount)
		}
	}
}

func TestResolveUserLimit_CloudOpenEndedTopBucket(t *testing.T) {
	policy := DefaultPolicy()

	for _, count := range []int{2001, 5000, 100000} {
		limit := ResolveUserLimit(policy, transport.DeploymentCloud, count)
		if limit.Tier == nil {
			t.Fatalf("expected a tier for %d users, got exact", count)
		}
		if limit.Tier.Min != 2001 {
			t.Fatalf("userCount %d: expected floor 2001, got %d", count, limit.Tier.Min)
		}
		if limit.Tier.Max > 0 {
			t.Fatalf("userCount %d: expected the open-ended bucket, got ceiling %d", count, limit.Tier.Max)
		}
	}
}

func TestResolveUserLimit_CloudBucketsPartitionPositiveIntegers(t *testing.T) {
	policy := DefaultPolicy()

	// Walking every count up to past the top breakpoint must always land in
	// exactly one bucket whose range contains the count.
	for count := 1; count <= 2100; count++ {
		limit := ResolveUserLimit(policy, transport.DeploymentCloud, count)
		if limit.Tier == nil {
			t.Fatalf("userCount %d: expected a tier", count)
		}
		if count < limit.Tier.Min || (limit.Tier.Max > 0 && count > limit.Tier.Max) {
			t.Fatalf("userCount %d: resolved bucket [%d,%d] does not contain it",
				count, limit.Tier.Min, limit.Tier.Max)
		}
	}
}
