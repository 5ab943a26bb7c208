package models

// TokenPair holds the bearer tokens issued by the backend. A pair is either
// absent entirely or both members are present; during a refresh only Access is
// replaced and Refresh is carried over unchanged.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (t TokenPair) Empty() bool {
	return t.Access == "" || t.Refresh == ""
}

// AuthResponse is what the login and oauth callback endpoints return. The
// user object is optional and only an optimistic hint, the profile fetch that
// follows is authoritative.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

func (a AuthResponse) TokenPair() TokenPair {
	return TokenPair{Access: a.Access, Refresh: a.Refresh}
}

// RefreshResponse is returned by the token refresh endpoint. Only a new
// access token is issued, the refresh token stays valid.
type RefreshResponse struct {
	Access string `json:"access"`
}
