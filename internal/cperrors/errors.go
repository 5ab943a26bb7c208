// Package cperrors contains all common errors used by the copilot client.
package cperrors

import "fmt"

var ErrNoAccessToken = fmt.Errorf("no access token available")
var ErrNoRefreshToken = fmt.Errorf("no refresh token available")
var ErrRefreshTokenExpired = fmt.Errorf("refresh token expired, please login again")
var ErrSessionExpired = fmt.Errorf("session expired, please login again")
var ErrInvalidProfileData = fmt.Errorf("invalid profile data received")
var ErrMissingTokens = fmt.Errorf("invalid login response - missing tokens")
var ErrStateMismatch = fmt.Errorf("oauth state parameter does not match the stored value")
