package zid

import (
	"encoding/json"
	"strings"
)

// TokenRequest is the JSON body sent to {auth}/oauth/token.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RedirectURI  string `json:"redirect_uri"`
	Code         string `json:"code"`
}

// TokenResponse is the result of an authorization-code exchange.
// AccessToken is the manager token; Authorization is the bearer credential.
type TokenResponse struct {
	AccessToken   string `json:"access_token"`
	Authorization string `json:"authorization"`
	RefreshToken  string `json:"refresh_token"`
	TokenType     string `json:"token_type,omitempty"`
	ExpiresIn     int64  `json:"expires_in,omitempty"`
}

// profileEnvelope picks the few fields the adapter logs out of an otherwise opaque profile.
type profileEnvelope struct {
	User struct {
		Store struct {
			ID    json.RawMessage `json:"id"`
			Title string          `json:"title"`
		} `json:"store"`
	} `json:"user"`
}

// StoreSummary extracts the store id and title from a merchant profile.
// Unknown shapes yield empty strings.
func StoreSummary(profile json.RawMessage) (id, title string) {
	if len(profile) == 0 {
		return "", ""
	}
	var env profileEnvelope
	if err := json.Unmarshal(profile, &env); err != nil {
		return "", ""
	}
	id = strings.Trim(string(env.User.Store.ID), `"`)
	if id == "null" {
		id = ""
	}
	return id, env.User.Store.Title
}
