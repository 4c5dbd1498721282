package premium

import (
	"net/http"

	"github.com/dmitrymomot/pawpremium/handler"
	"github.com/dmitrymomot/pawpremium/pkg/lifecycle"
)

func (s *Service) resolve(ctx handler.Context, req entitlementRequest) handler.Response {
	status, err := s.ctrl.Resolve(ctx, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(status)
}

func (s *Service) createCheckout(ctx handler.Context, req checkoutRequest) handler.Response {
	session, err := s.ctrl.StartCheckout(ctx, lifecycle.CheckoutInput{
		PriceID:    req.PriceID,
		UserID:     req.UserID,
		UserEmail:  req.UserEmail,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(session)
}

func (s *Service) verifyCheckout(ctx handler.Context, req verifyRequest) handler.Response {
	session, err := s.ctrl.VerifyCheckout(ctx, req.SessionID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(session)
}

func (s *Service) confirmCheckout(ctx handler.Context, req confirmRequest) handler.Response {
	status, err := s.ctrl.ConfirmCheckout(ctx, req.SessionID, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(status)
}

func (s *Service) cancelSubscription(ctx handler.Context, req cancelSubscriptionRequest) handler.Response {
	res, err := s.ctrl.CancelSubscription(ctx, req.SubscriptionID, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(res)
}

func (s *Service) cancelTrial(ctx handler.Context, req cancelTrialRequest) handler.Response {
	res, err := s.ctrl.CancelTrial(ctx, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(res)
}

func (s *Service) fixSubscription(ctx handler.Context, req fixRequest) handler.Response {
	rec, err := s.ctrl.FixSubscription(ctx, req.AdminEmail, req.SubscriptionID, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(rec)
}

func (s *Service) grantPremium(ctx handler.Context, req overrideRequest) handler.Response {
	if err := s.ctrl.GrantPremium(ctx, req.AdminEmail, req.TargetUserID); err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(successResponse{Success: true})
}

func (s *Service) revokePremium(ctx handler.Context, req overrideRequest) handler.Response {
	if err := s.ctrl.RevokePremium(ctx, req.AdminEmail, req.TargetUserID); err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(successResponse{Success: true})
}

func (s *Service) lookupUser(ctx handler.Context, req lookupRequest) handler.Response {
	ok, err := s.ctrl.UserExists(ctx, req.AdminEmail, req.UserID)
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(lookupResponse{Exists: ok})
}

func (s *Service) createUser(ctx handler.Context, req createUserRequest) handler.Response {
	rec, err := s.ctrl.CreateUser(ctx, req.AdminEmail, lifecycle.NewUser{
		UserID:    req.UserID,
		Email:     req.Email,
		TrialDays: req.TrialDays,
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(rec, handler.WithJSONStatus(http.StatusCreated))
}

func (s *Service) assignRole(ctx handler.Context, req assignRoleRequest) handler.Response {
	if err := s.ctrl.AssignRole(ctx, req.AdminEmail, req.Email, req.IsAdmin); err != nil {
		return s.fail(ctx, err)
	}
	return handler.JSON(successResponse{Success: true})
}
