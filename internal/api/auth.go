package api

import (
	"context"
	"fmt"
	"net/url"
)

// Login exchanges credentials for a token pair and stores it in the session.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var tokens TokenPair
	payload := map[string]string{"username": username, "password": password}
	if err := c.postJSON(ctx, "/user/login/", payload, false, &tokens); err != nil {
		return TokenPair{}, err
	}
	if err := c.session.Set(tokens.Access, tokens.Refresh); err != nil {
		return TokenPair{}, fmt.Errorf("failed to store session: %w", err)
	}
	return tokens, nil
}

// Register creates an account. When the backend returns tokens the session
// is stored, so a fresh signup lands on the home screen already logged in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (TokenPair, error) {
	var tokens TokenPair
	if err := c.postJSON(ctx, "/user/register/", req, false, &tokens); err != nil {
		return TokenPair{}, err
	}
	if tokens.Access != "" {
		if err := c.session.Set(tokens.Access, tokens.Refresh); err != nil {
			return TokenPair{}, fmt.Errorf("failed to store session: %w", err)
		}
	}
	return tokens, nil
}

// Logout revokes the refresh token and clears the local session either way.
func (c *Client) Logout(ctx context.Context) error {
	payload := map[string]string{"refresh_token": c.session.RefreshToken()}
	err := c.postJSON(ctx, "/user/logout/", payload, true, nil)
	if cerr := c.session.Clear(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// SecretQuestions lists every available security question.
func (c *Client) SecretQuestions(ctx context.Context) ([]SecretQuestion, error) {
	var questions []SecretQuestion
	if err := c.getJSON(ctx, "/user/secret-questions/", false, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// UserSecretQuestions returns the questions registered for a username.
func (c *Client) UserSecretQuestions(ctx context.Context, username string) ([]SecretQuestion, error) {
	var questions []SecretQuestion
	path := "/user/user-secret-question/" + url.PathEscape(username) + "/"
	if err := c.getJSON(ctx, path, false, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// VerifySecretAnswers checks recovery answers for a username.
func (c *Client) VerifySecretAnswers(ctx context.Context, username string, answers []SecretAnswer) error {
	path := "/user/verify-secret-answer/" + url.PathEscape(username) + "/"
	return c.postJSON(ctx, path, answers, false, nil)
}

// ResetPassword sets a new password after a verified recovery flow.
func (c *Client) ResetPassword(ctx context.Context, username string, req ResetPasswordRequest) error {
	path := "/user/reset-password/" + url.PathEscape(username) + "/"
	return c.postJSON(ctx, path, req, false, nil)
}

// ChangePassword updates the password of the logged-in user.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.postJSON(ctx, "/user/change-password/", req, true, nil)
}

// Profile fetches the account of the logged-in user.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var profile Profile
	if err := c.getJSON(ctx, "/user/profile/", true, &profile); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// UpdateProfile saves edited account fields and returns the new snapshot.
func (c *Client) UpdateProfile(ctx context.Context, profile Profile) (Profile, error) {
	var updated Profile
	if err := c.putJSON(ctx, "/user/profile/", profile, true, &updated); err != nil {
		return Profile{}, err
	}
	return updated, nil
}
