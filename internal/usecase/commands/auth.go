package commands

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"rentyard/internal/domain/user"
	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/infra/mailer"
	"rentyard/internal/pkg/clock"
	"rentyard/internal/pkg/config"
	"rentyard/internal/pkg/errs"
	"rentyard/internal/pkg/jwt"
	"rentyard/internal/pkg/password"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid email or password")
	ErrEmailTaken         = errs.New("email is already registered")
	ErrAccountInactive    = errs.New("account is inactive")
	ErrInvalidOTP         = errs.New("one-time code is invalid or expired")
	ErrInvalidResetToken  = errs.New("password reset token is invalid or expired")
	ErrUserNotFound       = errs.New("user not found")
)

const otpDigits = 6

type AuthCommands interface {
	Register(ctx context.Context, email, name, rawPassword string) (uuid.UUID, error)
	StartLogin(ctx context.Context, email, rawPassword string) error
	CompleteLogin(ctx context.Context, email, code string) (string, *user.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type authUseCaseImpl struct {
	pool   db.Queryer
	users  UserRepository
	tokens AuthTokenRepository
	jwt    *jwt.Service
	mailer mailer.Mailer
	clock  clock.Clock
	cfg    config.MailConfig
}

func NewAuthUsecase(
	pool db.Queryer,
	users UserRepository,
	tokens AuthTokenRepository,
	jwtSvc *jwt.Service,
	m mailer.Mailer,
	clk clock.Clock,
	cfg config.MailConfig,
) AuthCommands {
	return &authUseCaseImpl{
		pool:   pool,
		users:  users,
		tokens: tokens,
		jwt:    jwtSvc,
		mailer: m,
		clock:  clk,
		cfg:    cfg,
	}
}

func (u *authUseCaseImpl) Register(ctx context.Context, email, name, rawPassword string) (uuid.UUID, error) {
	creds, err := user.NewCredentials(email, rawPassword)
	if err != nil {
		return uuid.Nil, err
	}

	hash, err := password.HashPassword(creds.Password().Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	newUser, err := user.NewUser(uuid.New(), creds.Email(), name, hash, user.RoleCustomer)
	if err != nil {
		return uuid.Nil, err
	}

	if err := u.users.Insert(ctx, u.pool, newUser); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrEmailTaken)
		}
		return uuid.Nil, err
	}
	return newUser.ID(), nil
}

// StartLogin is the first login factor: verify the password, then mail a
// short-lived one-time code. Bad email and bad password return the same
// error so the endpoint cannot be used to probe for accounts.
func (u *authUseCaseImpl) StartLogin(ctx context.Context, email, rawPassword string) error {
	addr, err := user.NewEmail(email)
	if err != nil {
		return errs.Mark(err, ErrInvalidCredentials)
	}

	account, err := u.users.FindByEmail(ctx, u.pool, addr)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrInvalidCredentials)
		}
		return err
	}
	if err := account.EnsureActive(); err != nil {
		return errs.Mark(err, ErrAccountInactive)
	}
	if err := password.ComparePassword(account.PasswordHash(), rawPassword); err != nil {
		return errs.Mark(err, ErrInvalidCredentials)
	}

	code, err := generateOTP()
	if err != nil {
		return errs.Wrap(err, "failed to generate one-time code")
	}

	now := u.clock.Now()
	rec := AuthTokenRecord{
		ID:        uuid.New(),
		UserID:    account.ID(),
		Purpose:   TokenPurposeOTP,
		TokenHash: hashToken(code),
		ExpiresAt: now.Add(u.cfg.OTPLifetime),
	}
	if err := u.tokens.Insert(ctx, u.pool, rec); err != nil {
		return err
	}

	return u.mailer.Send(ctx, account.Email().String(), "Your login code",
		fmt.Sprintf("Your one-time login code is %s. It expires in %s.", code, u.cfg.OTPLifetime))
}

// CompleteLogin redeems the one-time code and issues the session token.
func (u *authUseCaseImpl) CompleteLogin(ctx context.Context, email, code string) (string, *user.User, error) {
	addr, err := user.NewEmail(email)
	if err != nil {
		return "", nil, errs.Mark(err, ErrInvalidOTP)
	}

	account, err := u.users.FindByEmail(ctx, u.pool, addr)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, errs.Mark(err, ErrInvalidOTP)
		}
		return "", nil, err
	}
	if err := account.EnsureActive(); err != nil {
		return "", nil, errs.Mark(err, ErrAccountInactive)
	}

	now := u.clock.Now()
	rec, err := u.tokens.FindActiveByUser(ctx, u.pool, account.ID(), TokenPurposeOTP, now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, errs.Mark(err, ErrInvalidOTP)
		}
		return "", nil, err
	}
	if subtle.ConstantTimeCompare([]byte(rec.TokenHash), []byte(hashToken(code))) != 1 {
		return "", nil, ErrInvalidOTP
	}
	if err := u.tokens.Consume(ctx, u.pool, rec.ID, now); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, errs.Mark(err, ErrInvalidOTP)
		}
		return "", nil, err
	}

	if err := u.users.RecordLogin(ctx, u.pool, account.ID(), now); err != nil {
		return "", nil, err
	}

	token, err := u.jwt.GenerateToken(account.ID(), account.Role())
	if err != nil {
		return "", nil, errs.Wrap(err, "failed to issue session token")
	}
	return token, account, nil
}

// RequestPasswordReset always reports success to the caller; whether the
// email exists is only visible in whether mail arrives.
func (u *authUseCaseImpl) RequestPasswordReset(ctx context.Context, email string) error {
	addr, err := user.NewEmail(email)
	if err != nil {
		return nil
	}

	account, err := u.users.FindByEmail(ctx, u.pool, addr)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return errs.Wrap(err, "failed to generate reset token")
	}

	rec := AuthTokenRecord{
		ID:        uuid.New(),
		UserID:    account.ID(),
		Purpose:   TokenPurposePasswordReset,
		TokenHash: hashToken(token),
		ExpiresAt: u.clock.Now().Add(u.cfg.ResetLifetime),
	}
	if err := u.tokens.Insert(ctx, u.pool, rec); err != nil {
		return err
	}

	return u.mailer.Send(ctx, account.Email().String(), "Password reset",
		fmt.Sprintf("Use this token to reset your password: %s. It expires in %s.", token, u.cfg.ResetLifetime))
}

func (u *authUseCaseImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	pw, err := user.NewPassword(newPassword)
	if err != nil {
		return err
	}

	now := u.clock.Now()
	rec, err := u.tokens.FindActiveByHash(ctx, u.pool, hashToken(token), TokenPurposePasswordReset, now)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrInvalidResetToken)
		}
		return err
	}
	if err := u.tokens.Consume(ctx, u.pool, rec.ID, now); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrInvalidResetToken)
		}
		return err
	}

	hash, err := password.HashPassword(pw.Value())
	if err != nil {
		return errs.Wrap(err, "failed to hash password")
	}
	return u.users.UpdatePasswordHash(ctx, u.pool, rec.UserID, hash)
}

func (u *authUseCaseImpl) CurrentUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	account, err := u.users.FindByID(ctx, u.pool, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrUserNotFound)
		}
		return nil, err
	}
	return account, nil
}

// PurgeExpiredTokens clears consumed and expired tokens; wired to a
// background ticker at startup.
func (u *authUseCaseImpl) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return u.tokens.DeleteExpired(ctx, u.pool, u.clock.Now())
}

func generateOTP() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < otpDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n), nil
}

func generateResetToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
