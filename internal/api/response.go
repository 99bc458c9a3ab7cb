package api

import "encoding/json"

// Error messages returned to callers.
const (
	msgMissingAuthURL = "Missing ZID_AUTH_URL environment variable"
	msgMissingCode    = "Missing OAuth code in callback"
	msgTokenFailed    = "Could not retrieve tokens from Zid"
	msgRouteNotFound  = "Route not found"
	msgBadRequest     = "Bad request"

	msgCompleted = "OAuth flow completed. Replace this with your own dashboard redirect."
)

// TokenSet carries the merchant credentials issued by Zid.
type TokenSet struct {
	ManagerToken string `json:"managerToken"`
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken"`
}

// CallbackResponse is the body of a completed OAuth callback.
// MerchantDetails is omitted when the profile could not be fetched.
type CallbackResponse struct {
	Message         string          `json:"message"`
	Tokens          TokenSet        `json:"tokens"`
	MerchantDetails json.RawMessage `json:"zidMerchantDetails,omitempty"`
}

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
