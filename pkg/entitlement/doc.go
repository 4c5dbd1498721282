// Package entitlement holds the per-user premium record, the partial-update
// Patch used to write it, and Resolve, which turns a record and an optional
// legacy entry into the effective premium status.
//
// Stores never let callers write isPremium. It is recomputed from the
// merged record on every write and kept only as a query projection:
//
//	rec, err := store.Merge(ctx, userID, entitlement.Patch{
//		TrialActive:  entitlement.Ptr(true),
//		TrialEndDate: entitlement.Ptr(now.Add(14 * 24 * time.Hour)),
//	})
//	status := entitlement.Resolve(rec, legacyEntry, now)
package entitlement
