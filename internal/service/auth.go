package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/config"
	"github.com/ifuryst/beacon/internal/models"
)

const AdminSubject = "admin"

// Principal is the authenticated caller of an admin operation.
type Principal struct {
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginInput struct {
	Secret string `json:"secret" binding:"required"`
	Code   string `json:"code" binding:"omitempty,numeric,len=6"`
}

type AuthService struct {
	store
	adminSecret string
	totpSecret  string
	ttl         time.Duration
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, logger *zap.Logger, cfg *config.AuthConfig, timeout time.Duration) *AuthService {
	return &AuthService{
		store:       newStore(db, logger, "Session", timeout),
		adminSecret: cfg.AdminSecret,
		totpSecret:  cfg.TOTPSecret,
		ttl:         config.Duration(cfg.SessionTTL, 12*time.Hour),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GenerateSecret creates a new TOTP key for an authenticator app.
func GenerateSecret(issuer, accountName string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key, nil
}

// ValidateCode checks a TOTP code. Without a configured secret every code passes.
func (a *AuthService) ValidateCode(code string) bool {
	if a.totpSecret == "" {
		return true
	}
	valid := totp.Validate(code, a.totpSecret)
	if !valid {
		a.logger.Warn("TOTP code validation failed")
	}
	return valid
}

// Login checks the admin secret and second factor, then opens a session.
func (a *AuthService) Login(ctx context.Context, in *LoginInput) (string, *Principal, error) {
	if err := ValidateInput(in); err != nil {
		return "", nil, err
	}
	if a.adminSecret == "" {
		return "", nil, apperr.Authentication("Admin login is disabled")
	}

	if subtle.ConstantTimeCompare([]byte(in.Secret), []byte(a.adminSecret)) != 1 || !a.ValidateCode(in.Code) {
		a.logger.Warn("Rejected admin login")
		return "", nil, apperr.Authentication("Invalid credentials")
	}

	return a.IssueSession(ctx, AdminSubject)
}

// IssueSession stores a new session for subject and returns its bearer token.
// Only the token hash is persisted.
func (a *AuthService) IssueSession(ctx context.Context, subject string) (string, *Principal, error) {
	token := newToken()
	session := &models.AdminSession{
		TokenHash: hashToken(token),
		Subject:   subject,
		ExpiresAt: a.now().Add(a.ttl),
	}

	db, cancel := a.session(ctx)
	defer cancel()

	if err := db.Create(session).Error; err != nil {
		return "", nil, a.fail("issue", err, "")
	}

	a.logger.Info("Issued admin session", zap.String("subject", subject), zap.Time("expires_at", session.ExpiresAt))
	return token, &Principal{Subject: subject, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate resolves a bearer token to its principal.
func (a *AuthService) Authenticate(ctx context.Context, credential string) (*Principal, error) {
	if credential == "" {
		return nil, apperr.Authentication("")
	}

	db, cancel := a.session(ctx)
	defer cancel()

	var session models.AdminSession
	err := db.Where("token_hash = ?", hashToken(credential)).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Authentication("Invalid or expired session")
	}
	if err != nil {
		return nil, a.fail("authenticate", err, "")
	}
	if session.Expired(a.now()) {
		return nil, apperr.Authentication("Invalid or expired session")
	}

	return &Principal{Subject: session.Subject, ExpiresAt: session.ExpiresAt}, nil
}

// Logout revokes the session behind credential. Unknown tokens are ignored.
func (a *AuthService) Logout(ctx context.Context, credential string) error {
	db, cancel := a.session(ctx)
	defer cancel()

	if err := db.Where("token_hash = ?", hashToken(credential)).Delete(&models.AdminSession{}).Error; err != nil {
		return a.fail("logout", err, "")
	}
	return nil
}

// PurgeExpired deletes sessions past their expiry.
func (a *AuthService) PurgeExpired(ctx context.Context) (int64, error) {
	db, cancel := a.session(ctx)
	defer cancel()

	res := db.Where("expires_at <= ?", a.now()).Delete(&models.AdminSession{})
	if res.Error != nil {
		return 0, a.fail("purge", res.Error, "")
	}
	return res.RowsAffected, nil
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
