// Package handler provides type-safe HTTP request handling for JSON APIs.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response:
//
//	type GrantRequest struct {
//		TargetUserID string `json:"targetUserId"`
//		AdminEmail   string `json:"adminEmail"`
//	}
//
//	func grant(ctx handler.Context, req GrantRequest) handler.Response {
//		if err := ctrl.GrantPremium(ctx, req.AdminEmail, req.TargetUserID); err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(map[string]bool{"success": true})
//	}
//
//	r.Post("/admin/premium/grant", handler.Wrap(handler.HandlerFunc[handler.Context, GrantRequest](grant),
//		handler.WithBinder[handler.Context, GrantRequest](binder.JSON()),
//		handler.WithErrorHandler[handler.Context, GrantRequest](handler.NewErrorHandler[handler.Context](log)),
//	))
//
// # Errors
//
// JSONError renders {"error": {"code": ..., "message": ...}}. The status and
// code come from an HTTPError in the error chain; Classify builds one from
// domain errors with caller-supplied classifiers. Unclassified errors are
// rendered as 500 internal_error without their message.
//
// # Context
//
// Context embeds the request context, so it can be passed directly to
// blocking calls and is cancelled when the client goes away.
package handler
