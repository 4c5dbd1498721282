// Package audit records who changed an entitlement, what changed and whether
// it succeeded. Events are written synchronously to a Storage; MemoryStorage
// serves tests and local runs, pkg/mongo provides the persistent one.
//
//	auditLog := audit.NewLogger(storage, audit.WithRequestIDExtractor(requestid.FromContext))
//	_ = auditLog.Log(ctx, "premium.grant",
//		audit.WithActor(adminEmail),
//		audit.WithUserID(targetUserID),
//	)
package audit
