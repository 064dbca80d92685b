package service

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/pquerna/otp/totp"

	"github.com/ifuryst/beacon/internal/apperr"
	"github.com/ifuryst/beacon/internal/config"
	"github.com/ifuryst/beacon/internal/models"
	"github.com/ifuryst/beacon/internal/testutil"
)

func newAuth(c *qt.C, cfg *config.AuthConfig) *AuthService {
	db := testutil.OpenDB(c)
	c.Assert(AutoMigrate(db), qt.IsNil)
	return NewAuthService(db, testutil.Logger(), cfg, time.Second)
}

func TestLogin_SecretOnly(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	auth := newAuth(c, &config.AuthConfig{AdminSecret: "hunter2"})

	_, _, err := auth.Login(ctx, &LoginInput{Secret: "wrong"})
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)

	_, _, err = auth.Login(ctx, &LoginInput{})
	c.Assert(err, qt.ErrorIs, apperr.ErrValidation)
	c.Assert(apperr.From(err).FieldNames(), qt.DeepEquals, []string{"secret"})

	token, principal, err := auth.Login(ctx, &LoginInput{Secret: "hunter2"})
	c.Assert(err, qt.IsNil)
	c.Assert(token, qt.HasLen, 64)
	c.Assert(principal.Subject, qt.Equals, AdminSubject)

	got, err := auth.Authenticate(ctx, token)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Subject, qt.Equals, AdminSubject)

	var session models.AdminSession
	c.Assert(auth.db.First(&session).Error, qt.IsNil)
	c.Assert(session.TokenHash, qt.Equals, hashToken(token))
	c.Assert(session.TokenHash, qt.Not(qt.Equals), token)

	c.Assert(auth.Logout(ctx, token), qt.IsNil)
	_, err = auth.Authenticate(ctx, token)
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)
}

func TestLogin_Disabled(t *testing.T) {
	c := qt.New(t)
	auth := newAuth(c, &config.AuthConfig{})

	_, _, err := auth.Login(context.Background(), &LoginInput{Secret: "anything"})
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)
	c.Assert(apperr.From(err).Message, qt.Equals, "Admin login is disabled")
}

func TestLogin_TOTP(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	key, err := GenerateSecret("Beacon", "admin")
	c.Assert(err, qt.IsNil)
	c.Assert(key.URL(), qt.Contains, "otpauth://totp/")

	auth := newAuth(c, &config.AuthConfig{AdminSecret: "hunter2", TOTPSecret: key.Secret()})

	_, _, err = auth.Login(ctx, &LoginInput{Secret: "hunter2"})
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)

	code, err := totp.GenerateCode(key.Secret(), time.Now())
	c.Assert(err, qt.IsNil)

	token, _, err := auth.Login(ctx, &LoginInput{Secret: "hunter2", Code: code})
	c.Assert(err, qt.IsNil)
	c.Assert(token, qt.Not(qt.Equals), "")
}

func TestAuthenticate_ExpiredAndPurged(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	auth := newAuth(c, &config.AuthConfig{AdminSecret: "hunter2", SessionTTL: "1h"})

	_, err := auth.Authenticate(ctx, "")
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)
	c.Assert(apperr.From(err).Message, qt.Equals, "Authentication required")

	token, _, err := auth.IssueSession(ctx, "cli")
	c.Assert(err, qt.IsNil)

	later := time.Now().UTC().Add(2 * time.Hour)
	auth.now = func() time.Time { return later }

	_, err = auth.Authenticate(ctx, token)
	c.Assert(err, qt.ErrorIs, apperr.ErrAuthentication)

	purged, err := auth.PurgeExpired(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(purged, qt.Equals, int64(1))
}

func TestJanitor_RunOnce(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	auth := newAuth(c, &config.AuthConfig{AdminSecret: "hunter2", SessionTTL: "1m"})

	_, _, err := auth.IssueSession(ctx, "cli")
	c.Assert(err, qt.IsNil)

	later := time.Now().UTC().Add(time.Hour)
	auth.now = func() time.Time { return later }

	janitor := NewJanitor(&config.SchedulerConfig{Enabled: true, Interval: "1h"}, auth.db, auth, testutil.Logger())
	janitor.now = auth.now

	closed, purged, err := janitor.RunOnce(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(closed, qt.Equals, int64(0))
	c.Assert(purged, qt.Equals, int64(1))
}

func TestJanitor_DisabledStartIsNoop(t *testing.T) {
	c := qt.New(t)
	auth := newAuth(c, &config.AuthConfig{})

	janitor := NewJanitor(&config.SchedulerConfig{Enabled: false}, auth.db, auth, testutil.Logger())
	c.Assert(janitor.Start(context.Background()), qt.IsNil)
	c.Assert(janitor.ticker, qt.IsNil)
}
