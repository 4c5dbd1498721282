package entitlement

import "time"

// Field paths inside a Record document.
const (
	FieldEmail                 = "email"
	FieldSubscription          = "subscription"
	FieldCancelAtPeriodEnd     = "subscription.cancelAtPeriodEnd"
	FieldSubscriptionUpdatedAt = "subscription.updatedAt"
	FieldAdminGrantedPremium   = "adminGrantedPremium"
	FieldPremiumGrantedBy      = "premiumGrantedBy"
	FieldPremiumGrantedAt      = "premiumGrantedAt"
	FieldPremiumRevokedBy      = "premiumRevokedBy"
	FieldPremiumRevokedAt      = "premiumRevokedAt"
	FieldTrialActive           = "trialActive"
	FieldTrialEndDate          = "trialEndDate"
	FieldIsPremium             = "isPremium"
	FieldCreatedAt             = "createdAt"
	FieldUpdatedAt             = "updatedAt"
)

// Patch is a partial update of a Record. Nil fields are left untouched.
// Every non-nil field becomes exactly one field-path assignment, so merges
// touching disjoint fields never overwrite each other.
//
// IsPremium is intentionally absent: stores recompute it on every write.
type Patch struct {
	Email *string

	// ReplaceSubscription overwrites the whole mirror.
	ReplaceSubscription *Subscription

	CancelAtPeriodEnd     *bool
	SubscriptionUpdatedAt *time.Time

	AdminGrantedPremium *bool
	PremiumGrantedBy    *string
	PremiumGrantedAt    *time.Time
	PremiumRevokedBy    *string
	PremiumRevokedAt    *time.Time

	TrialActive  *bool
	TrialEndDate *time.Time
	// ClearTrialEndDate writes null to trialEndDate and wins over TrialEndDate.
	ClearTrialEndDate bool
}

// Field is a single assignment produced by a Patch.
// A nil Value clears the field.
type Field struct {
	Path  string
	Value any
}

// Validate checks the patch can be applied as one write.
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.ReplaceSubscription != nil && (p.CancelAtPeriodEnd != nil || p.SubscriptionUpdatedAt != nil) {
		return ErrConflictingPatch
	}
	return nil
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the assignments in a stable order.
func (p Patch) Fields() []Field {
	var fields []Field
	add := func(path string, v any) { fields = append(fields, Field{Path: path, Value: v}) }

	if p.Email != nil {
		add(FieldEmail, *p.Email)
	}
	if p.ReplaceSubscription != nil {
		sub := *p.ReplaceSubscription
		add(FieldSubscription, sub)
	}
	if p.CancelAtPeriodEnd != nil {
		add(FieldCancelAtPeriodEnd, *p.CancelAtPeriodEnd)
	}
	if p.SubscriptionUpdatedAt != nil {
		add(FieldSubscriptionUpdatedAt, *p.SubscriptionUpdatedAt)
	}
	if p.AdminGrantedPremium != nil {
		add(FieldAdminGrantedPremium, *p.AdminGrantedPremium)
	}
	if p.PremiumGrantedBy != nil {
		add(FieldPremiumGrantedBy, *p.PremiumGrantedBy)
	}
	if p.PremiumGrantedAt != nil {
		add(FieldPremiumGrantedAt, *p.PremiumGrantedAt)
	}
	if p.PremiumRevokedBy != nil {
		add(FieldPremiumRevokedBy, *p.PremiumRevokedBy)
	}
	if p.PremiumRevokedAt != nil {
		add(FieldPremiumRevokedAt, *p.PremiumRevokedAt)
	}
	if p.TrialActive != nil {
		add(FieldTrialActive, *p.TrialActive)
	}
	switch {
	case p.ClearTrialEndDate:
		add(FieldTrialEndDate, nil)
	case p.TrialEndDate != nil:
		add(FieldTrialEndDate, *p.TrialEndDate)
	}

	return fields
}

// Apply writes the patch into r in place. Stores that keep records in
// memory use it; document stores translate Fields instead.
func (p Patch) Apply(r *Record) {
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.ReplaceSubscription != nil {
		sub := *p.ReplaceSubscription
		sub.CurrentPeriodEnd = cloneTime(p.ReplaceSubscription.CurrentPeriodEnd)
		r.Subscription = &sub
	}
	if p.CancelAtPeriodEnd != nil || p.SubscriptionUpdatedAt != nil {
		if r.Subscription == nil {
			r.Subscription = &Subscription{}
		}
		if p.CancelAtPeriodEnd != nil {
			r.Subscription.CancelAtPeriodEnd = *p.CancelAtPeriodEnd
		}
		if p.SubscriptionUpdatedAt != nil {
			r.Subscription.UpdatedAt = *p.SubscriptionUpdatedAt
		}
	}
	if p.AdminGrantedPremium != nil {
		r.AdminGrantedPremium = *p.AdminGrantedPremium
	}
	if p.PremiumGrantedBy != nil {
		r.PremiumGrantedBy = *p.PremiumGrantedBy
	}
	if p.PremiumGrantedAt != nil {
		r.PremiumGrantedAt = cloneTime(p.PremiumGrantedAt)
	}
	if p.PremiumRevokedBy != nil {
		r.PremiumRevokedBy = *p.PremiumRevokedBy
	}
	if p.PremiumRevokedAt != nil {
		r.PremiumRevokedAt = cloneTime(p.PremiumRevokedAt)
	}
	if p.TrialActive != nil {
		r.TrialActive = *p.TrialActive
	}
	switch {
	case p.ClearTrialEndDate:
		r.TrialEndDate = nil
	case p.TrialEndDate != nil:
		r.TrialEndDate = cloneTime(p.TrialEndDate)
	}
}
