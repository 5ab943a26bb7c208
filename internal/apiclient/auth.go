package apiclient

import (
	"context"
	"encoding/json"

	"github.com/admin-copilot/copilot-go/internal/models"
)

// SignupRequest is the payload for the signup endpoint. Signup does not
// establish a session, the backend issues an email verification step.
type SignupRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	AgreedToTerms bool   `json:"agreed_to_terms"`
}

func (c *Client) Login(ctx context.Context, email string, password string) (models.AuthResponse, error) {
	var response models.AuthResponse
	err := c.postJSON(ctx, "/api/auth/login/", map[string]string{"email": email, "password": password}, &response)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return response, nil
}

func (c *Client) TeamMemberLogin(ctx context.Context, email string, password string) (models.AuthResponse, error) {
	var response models.AuthResponse
	err := c.postJSON(ctx, "/api/team-member-login/", map[string]string{"email": email, "password": password}, &response)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return response, nil
}

func (c *Client) Signup(ctx context.Context, signup SignupRequest) (json.RawMessage, error) {
	var response json.RawMessage
	err := c.postJSON(ctx, "/api/auth/signup/", signup, &response)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) VerifyEmailOTP(ctx context.Context, email string, otp string) error {
	return c.postJSON(ctx, "/api/auth/verify-email-otp/", map[string]string{"email": email, "otp": otp}, nil)
}

func (c *Client) RequestResetOTP(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/api/auth/request-reset-otp/", map[string]string{"email": email}, nil)
}

func (c *Client) VerifyResetOTP(ctx context.Context, email string, otp string, newPassword string) error {
	return c.postJSON(ctx, "/api/auth/verify-reset-otp/", map[string]string{"email": email, "otp": otp, "new_password": newPassword}, nil)
}

// GoogleLoginURL asks the backend to build the provider authorization URL for
// the given state. This is the server-built alternative to building the URL
// locally in the oauthflow package.
func (c *Client) GoogleLoginURL(ctx context.Context, state string) (string, error) {
	var response struct {
		AuthURL string `json:"auth_url"`
	}
	err := c.postJSON(ctx, "/api/auth/gmail/login/", map[string]string{"state": state}, &response)
	if err != nil {
		return "", err
	}
	return response.AuthURL, nil
}

// ExchangeGoogleCode exchanges a returned authorization code for a token pair
// through the backend.
func (c *Client) ExchangeGoogleCode(ctx context.Context, state string, code string) (models.AuthResponse, error) {
	var response models.AuthResponse
	err := c.postJSON(ctx, "/api/auth/gmail/callback/", map[string]string{"state": state, "code": code}, &response)
	if err != nil {
		return models.AuthResponse{}, err
	}
	return response, nil
}
