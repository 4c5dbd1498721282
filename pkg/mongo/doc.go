// Package mongo connects to MongoDB and implements the persistent stores:
// entitlement records (Store), administrator roles (RoleStore) and the
// audit trail (AuditStorage).
//
// Store.Merge is a single findOneAndUpdate with an aggregation pipeline.
// The first stage sets the patched fields, the second recomputes the
// cached isPremium flag and the timestamps from the merged document, so
// the cache can never disagree with the fields it is derived from.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	store := mongo.NewStore(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		return err
//	}
package mongo
