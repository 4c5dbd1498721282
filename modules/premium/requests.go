package premium

type entitlementRequest struct {
	UserID string `path:"userId"`
}

type checkoutRequest struct {
	PriceID    string `json:"priceId"`
	UserID     string `json:"userId"`
	UserEmail  string `json:"userEmail"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type verifyRequest struct {
	SessionID string `query:"session_id"`
}

type confirmRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type cancelSubscriptionRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	UserID         string `json:"userId"`
}

type cancelTrialRequest struct {
	UserID string `json:"userId"`
}

type fixRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	UserID         string `json:"userId"`
	AdminEmail     string `json:"adminEmail"`
}

type overrideRequest struct {
	TargetUserID string `json:"targetUserId"`
	AdminEmail   string `json:"adminEmail"`
}

type lookupRequest struct {
	UserID     string `json:"userId"`
	AdminEmail string `json:"adminEmail"`
}

type createUserRequest struct {
	UserID     string `json:"userId"`
	Email      string `json:"email"`
	TrialDays  int    `json:"trialDays"`
	AdminEmail string `json:"adminEmail"`
}

type assignRoleRequest struct {
	Email      string `json:"email"`
	IsAdmin    bool   `json:"isAdmin"`
	AdminEmail string `json:"adminEmail"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type lookupResponse struct {
	Exists bool `json:"exists"`
}
