package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/pawpremium/pkg/entitlement"
	"github.com/dmitrymomot/pawpremium/pkg/legacy"
)

var now = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func activeSub(plan entitlement.Plan) *entitlement.Subscription {
	return &entitlement.Subscription{ID: "sub_1", Status: entitlement.StatusActive, Plan: plan}
}

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)
	activeLegacy := &legacy.Entry{UserID: "u1", EndDate: now.AddDate(1, 0, 0)}
	expiredLegacy := &legacy.Entry{UserID: "u1", EndDate: now.AddDate(0, 0, -1)}

	tests := []struct {
		name  string
		rec   *entitlement.Record
		entry *legacy.Entry
		want  entitlement.Status
	}{
		{
			name: "nothing",
			want: entitlement.Status{Reason: entitlement.ReasonNone},
		},
		{
			name: "admin grant beats everything",
			rec: &entitlement.Record{
				AdminGrantedPremium: true,
				TrialActive:         true,
				TrialEndDate:        &future,
				Subscription:        activeSub(entitlement.PlanYearly),
			},
			entry: activeLegacy,
			want:  entitlement.Status{IsPremium: true, Reason: entitlement.ReasonAdminGranted},
		},
		{
			name: "trial beats subscription",
			rec: &entitlement.Record{
				TrialActive:  true,
				TrialEndDate: &future,
				Subscription: activeSub(entitlement.PlanMonthly),
			},
			want: entitlement.Status{IsPremium: true, Reason: entitlement.ReasonTrial},
		},
		{
			name: "expired trial falls through to subscription",
			rec: &entitlement.Record{
				TrialActive:  true,
				TrialEndDate: &past,
				Subscription: activeSub(entitlement.PlanYearly),
			},
			want: entitlement.Status{IsPremium: true, Reason: entitlement.ReasonSubscription, Plan: entitlement.PlanYearly},
		},
		{
			name: "trial flag without end date is not premium",
			rec:  &entitlement.Record{TrialActive: true},
			want: entitlement.Status{Reason: entitlement.ReasonNone},
		},
		{
			name:  "subscription beats legacy",
			rec:   &entitlement.Record{Subscription: activeSub(entitlement.PlanMonthly)},
			entry: activeLegacy,
			want:  entitlement.Status{IsPremium: true, Reason: entitlement.ReasonSubscription, Plan: entitlement.PlanMonthly},
		},
		{
			name: "cancel at period end keeps access while active",
			rec: &entitlement.Record{Subscription: &entitlement.Subscription{
				ID: "sub_1", Status: entitlement.StatusActive, Plan: entitlement.PlanMonthly, CancelAtPeriodEnd: true,
			}},
			want: entitlement.Status{IsPremium: true, Reason: entitlement.ReasonSubscription, Plan: entitlement.PlanMonthly},
		},
		{
			name: "non active subscription falls through to legacy",
			rec: &entitlement.Record{Subscription: &entitlement.Subscription{
				ID: "sub_1", Status: entitlement.StatusPastDue,
			}},
			entry: activeLegacy,
			want:  entitlement.Status{IsPremium: true, Reason: entitlement.ReasonLegacy},
		},
		{
			name:  "legacy without record",
			entry: activeLegacy,
			want:  entitlement.Status{IsPremium: true, Reason: entitlement.ReasonLegacy},
		},
		{
			name:  "expired legacy",
			entry: expiredLegacy,
			want:  entitlement.Status{Reason: entitlement.ReasonNone},
		},
		{
			name: "canceled subscription",
			rec: &entitlement.Record{Subscription: &entitlement.Subscription{
				ID: "sub_1", Status: entitlement.StatusCanceled, CancelAtPeriodEnd: true,
			}},
			want: entitlement.Status{Reason: entitlement.ReasonNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, entitlement.Resolve(tt.rec, tt.entry, now))
		})
	}
}

func TestResolve_IsPure(t *testing.T) {
	t.Parallel()

	future := now.Add(time.Hour)
	rec := &entitlement.Record{TrialActive: true, TrialEndDate: &future, Subscription: activeSub(entitlement.PlanMonthly)}
	before := rec.Clone()
	entry := &legacy.Entry{UserID: "u1", EndDate: now}

	first := entitlement.Resolve(rec, entry, now)
	second := entitlement.Resolve(rec, entry, now)

	assert.Equal(t, first, second)
	assert.Equal(t, before, rec)
}

func TestResolve_TrialEndsExactlyAtNow(t *testing.T) {
	t.Parallel()

	end := now
	rec := &entitlement.Record{TrialActive: true, TrialEndDate: &end}
	assert.False(t, entitlement.Resolve(rec, nil, now).IsPremium)
	assert.True(t, entitlement.Resolve(rec, nil, now.Add(-time.Nanosecond)).IsPremium)
}

func TestResolve_LegacyUsesLocationOfNow(t *testing.T) {
	t.Parallel()

	entry := &legacy.Entry{UserID: "u1", EndDate: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)}
	at := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

	assert.True(t, entitlement.Resolve(nil, entry, at).IsPremium)
	assert.False(t, entitlement.Resolve(nil, entry, at.In(time.FixedZone("UTC+10", 10*60*60))).IsPremium)
}

func TestProjectPremium_IgnoresLegacy(t *testing.T) {
	t.Parallel()

	assert.False(t, entitlement.ProjectPremium(&entitlement.Record{}, now))
	assert.True(t, entitlement.ProjectPremium(&entitlement.Record{AdminGrantedPremium: true}, now))
}
