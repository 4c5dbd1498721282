package entitlement

import "time"

// Plan is the billing interval of a paid subscription.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// SubscriptionStatus mirrors the billing provider's subscription status.
type SubscriptionStatus string

const (
	StatusActive     SubscriptionStatus = "active"
	StatusTrialing   SubscriptionStatus = "trialing"
	StatusPastDue    SubscriptionStatus = "past_due"
	StatusUnpaid     SubscriptionStatus = "unpaid"
	StatusIncomplete SubscriptionStatus = "incomplete"
	StatusPaused     SubscriptionStatus = "paused"
	StatusCanceled   SubscriptionStatus = "canceled"
)

// Subscription is the local mirror of the provider's subscription.
// ID is the provider subscription id and the ownership join key.
type Subscription struct {
	ID                string             `bson:"id" json:"id"`
	Status            SubscriptionStatus `bson:"status" json:"status"`
	Plan              Plan               `bson:"plan,omitempty" json:"plan,omitempty"`
	CancelAtPeriodEnd bool               `bson:"cancelAtPeriodEnd" json:"cancelAtPeriodEnd"`
	CurrentPeriodEnd  *time.Time         `bson:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`
	CustomerID        string             `bson:"customerId,omitempty" json:"customerId,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Record is the persisted per-user entitlement document.
//
// IsPremium is a projection maintained by the store on every write.
// It is never authoritative: use Resolve to decide access.
type Record struct {
	UserID       string        `bson:"_id" json:"userId"`
	Email        string        `bson:"email,omitempty" json:"email,omitempty"`
	Subscription *Subscription `bson:"subscription,omitempty" json:"subscription,omitempty"`

	AdminGrantedPremium bool       `bson:"adminGrantedPremium" json:"adminGrantedPremium"`
	PremiumGrantedBy    string     `bson:"premiumGrantedBy,omitempty" json:"premiumGrantedBy,omitempty"`
	PremiumGrantedAt    *time.Time `bson:"premiumGrantedAt,omitempty" json:"premiumGrantedAt,omitempty"`
	PremiumRevokedBy    string     `bson:"premiumRevokedBy,omitempty" json:"premiumRevokedBy,omitempty"`
	PremiumRevokedAt    *time.Time `bson:"premiumRevokedAt,omitempty" json:"premiumRevokedAt,omitempty"`

	TrialActive  bool       `bson:"trialActive" json:"trialActive"`
	TrialEndDate *time.Time `bson:"trialEndDate,omitempty" json:"trialEndDate,omitempty"`

	IsPremium bool      `bson:"isPremium" json:"isPremium"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasSubscription reports whether a mirror with the given provider id is stored.
func (r *Record) HasSubscription(subscriptionID string) bool {
	return r != nil && r.Subscription != nil && subscriptionID != "" && r.Subscription.ID == subscriptionID
}

// TrialRunning reports whether the trial flag is set and the end date is still ahead.
func (r *Record) TrialRunning(now time.Time) bool {
	return r != nil && r.TrialActive && r.TrialEndDate != nil && now.Before(*r.TrialEndDate)
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.Subscription != nil {
		sub := *r.Subscription
		sub.CurrentPeriodEnd = cloneTime(r.Subscription.CurrentPeriodEnd)
		c.Subscription = &sub
	}
	c.PremiumGrantedAt = cloneTime(r.PremiumGrantedAt)
	c.PremiumRevokedAt = cloneTime(r.PremiumRevokedAt)
	c.TrialEndDate = cloneTime(r.TrialEndDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// Ptr returns a pointer to v. Useful for building patches.
func Ptr[T any](v T) *T {
	return &v
}
