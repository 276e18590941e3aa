// File: internal/firebase/service.go
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"skills_portfolio_backend/internal/config"
	"skills_portfolio_backend/internal/identity"
)

const signInWithPasswordURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Service provides methods to interact with Firebase, primarily
// authentication. The Admin SDK cannot exchange a password for a token, so
// password sign-in goes through the Identity Toolkit REST endpoint using the
// project's web API key.
type Service struct {
	authClient *auth.Client
	webAPIKey  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewService initializes the Firebase Admin SDK and creates a new Service.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// Let the SDK infer the project from the credentials file.
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Service{
		authClient: authClient,
		webAPIKey:  cfg.FirebaseWebAPIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}, nil
}

// VerifyIDToken verifies a Firebase ID token and returns the token claims.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token must not be empty")
	}

	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify Firebase ID token: %w", err)
	}

	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return token, nil
}

// CreateSessionCookie exchanges a verified ID token for a long-lived session
// cookie value.
func (s *Service) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	cookie, err := s.authClient.SessionCookie(ctx, idToken, expiresIn)
	if err != nil {
		s.logger.Warn("Failed to mint Firebase session cookie", zap.Error(err))
		return "", fmt.Errorf("failed to create session cookie: %w", err)
	}
	return cookie, nil
}

// VerifySessionCookie verifies a session cookie value and checks that the
// user's tokens have not been revoked since it was minted.
func (s *Service) VerifySessionCookie(ctx context.Context, cookie string) (*auth.Token, error) {
	if cookie == "" {
		return nil, fmt.Errorf("session cookie must not be empty")
	}

	token, err := s.authClient.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		s.logger.Debug("Firebase session cookie verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify session cookie: %w", err)
	}
	return token, nil
}

// RevokeRefreshTokens revokes all refresh tokens for a given user,
// invalidating outstanding session cookies on their next check.
func (s *Service) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}

// GetUser fetches the Firebase user record for a UID.
func (s *Service) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	rec, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Firebase user %s: %w", uid, err)
	}
	return rec, nil
}

// CreateUser creates a password account in Firebase.
func (s *Service) CreateUser(ctx context.Context, email, password string) (*auth.UserRecord, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(false)

	rec, err := s.authClient.CreateUser(ctx, params)
	if err != nil {
		s.logger.Warn("Firebase user creation failed", zap.Error(err), zap.String("email", email))
		return nil, err
	}
	return rec, nil
}

// EmailVerificationLink generates the out-of-band verification link for a
// freshly created password account.
func (s *Service) EmailVerificationLink(ctx context.Context, email string) (string, error) {
	link, err := s.authClient.EmailVerificationLink(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to generate email verification link: %w", err)
	}
	return link, nil
}

type passwordSignInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// PasswordSignInResult carries the Identity Toolkit response fields the
// application needs.
type PasswordSignInResult struct {
	UID          string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type identityToolkitError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// PasswordSignIn exchanges an email and password for an ID token via the
// Identity Toolkit REST API.
func (s *Service) PasswordSignIn(ctx context.Context, email, password string) (*PasswordSignInResult, error) {
	if s.webAPIKey == "" {
		return nil, fmt.Errorf("firebase web API key is not configured; password sign-in unavailable")
	}

	body, err := json.Marshal(passwordSignInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign-in request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", signInWithPasswordURL, s.webAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Identity Toolkit sign-in request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", identity.ErrProvider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sign-in response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var itErr identityToolkitError
		_ = json.Unmarshal(respBody, &itErr)
		return nil, mapSignInError(itErr.Error.Message)
	}

	var result PasswordSignInResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	return &result, nil
}

// mapSignInError maps Identity Toolkit error codes onto the identity
// package's sentinel errors.
func mapSignInError(code string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"):
		return identity.ErrAccountNotFound
	case strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"):
		return identity.ErrInvalidCredentials
	case strings.HasPrefix(code, "INVALID_EMAIL"):
		return identity.ErrInvalidEmail
	case strings.HasPrefix(code, "USER_DISABLED"):
		return identity.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: %s", identity.ErrProvider, code)
	}
}

// IdentityFromToken converts verified Firebase token claims into an Identity.
func IdentityFromToken(token *auth.Token) *identity.Identity {
	id := &identity.Identity{
		UID:        token.UID,
		AuthMethod: identity.AuthMethodFederated,
	}

	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	if verified, ok := token.Claims["email_verified"].(bool); ok {
		id.EmailVerified = verified
	}
	if name, ok := token.Claims["name"].(string); ok {
		id.DisplayName = name
	}
	if picture, ok := token.Claims["picture"].(string); ok {
		id.PhotoURL = picture
	}
	if token.Firebase.SignInProvider == "password" {
		id.AuthMethod = identity.AuthMethodPassword
	}
	return id
}

// IdentityFromUserRecord converts an admin user record into an Identity.
func IdentityFromUserRecord(rec *auth.UserRecord) *identity.Identity {
	id := &identity.Identity{
		UID:           rec.UID,
		Email:         rec.Email,
		DisplayName:   rec.DisplayName,
		PhotoURL:      rec.PhotoURL,
		EmailVerified: rec.EmailVerified,
		AuthMethod:    identity.AuthMethodFederated,
	}
	for _, p := range rec.ProviderUserInfo {
		if p.ProviderID == "password" {
			id.AuthMethod = identity.AuthMethodPassword
			break
		}
	}
	return id
}
