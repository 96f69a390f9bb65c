//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"rentyard/internal/infra"
	"rentyard/internal/infra/db"
	"rentyard/internal/pkg/clock"
	"rentyard/internal/pkg/config"
	"rentyard/internal/pkg/jwt"
	"rentyard/internal/pkg/password"
	"rentyard/internal/usecase/commands"
	"rentyard/tests/common/builder"
	commandsmock "rentyard/tests/mock/commands"
	mailermock "rentyard/tests/mock/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthUsecaseTestSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	users  *commandsmock.MockUserRepository
	tokens *commandsmock.MockAuthTokenRepository
	mailer *mailermock.MockMailer
	jwtSvc *jwt.Service
	clock  *clock.MockClock
	cfg    config.MailConfig
	uc     commands.AuthCommands
}

func (s *AuthUsecaseTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = commandsmock.NewMockUserRepository(s.ctrl)
	s.tokens = commandsmock.NewMockAuthTokenRepository(s.ctrl)
	s.mailer = mailermock.NewMockMailer(s.ctrl)
	s.jwtSvc = jwt.NewService("test-secret", time.Hour)
	s.clock = clock.NewMockClock(fixedNow)
	s.cfg = config.MailConfig{
		FromAddress:   "no-reply@test.local",
		OTPLifetime:   10 * time.Minute,
		ResetLifetime: time.Hour,
	}
	s.uc = commands.NewAuthUsecase(nil, s.users, s.tokens, s.jwtSvc, s.mailer, s.clock, s.cfg)
}

func (s *AuthUsecaseTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthUsecaseSuite(t *testing.T) {
	suite.Run(t, new(AuthUsecaseTestSuite))
}

func tokenDigest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (s *AuthUsecaseTestSuite) TestRegister() {
	ub := builder.NewUserBuilder()

	s.Run("success: stores hashed password and returns the new id", func() {
		s.users.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		id, err := s.uc.Register(context.Background(), ub.Email, ub.Name, ub.Password)

		s.Require().NoError(err)
		s.NotEqual(uuid.Nil, id)
	})

	s.Run("duplicate email maps to ErrEmailTaken", func() {
		s.users.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("insert user", nil, infra.KindDuplicateKey))

		_, err := s.uc.Register(context.Background(), ub.Email, ub.Name, ub.Password)

		s.Require().ErrorIs(err, commands.ErrEmailTaken)
	})
}

func (s *AuthUsecaseTestSuite) TestStartLogin() {
	hash, err := password.HashPassword("Password123!")
	s.Require().NoError(err)
	ub := builder.NewUserBuilder().WithPasswordHash(hash)

	s.Run("success: stores an OTP record and mails the code", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)

		var rec commands.AuthTokenRecord
		s.tokens.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Queryer, r commands.AuthTokenRecord) error {
				rec = r
				return nil
			})

		var body string
		s.mailer.EXPECT().Send(gomock.Any(), ub.Email, "Your login code", gomock.Any()).DoAndReturn(
			func(_ context.Context, _, _, b string) error {
				body = b
				return nil
			})

		s.Require().NoError(s.uc.StartLogin(context.Background(), ub.Email, ub.Password))

		s.Equal(commands.TokenPurposeOTP, rec.Purpose)
		s.Equal(account.ID(), rec.UserID)
		s.Equal(fixedNow.Add(s.cfg.OTPLifetime), rec.ExpiresAt)
		s.NotEmpty(rec.TokenHash)
		s.NotContains(body, rec.TokenHash)
	})

	s.Run("unknown email maps to ErrInvalidCredentials", func() {
		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("find user", nil, infra.KindNotFound))

		err := s.uc.StartLogin(context.Background(), ub.Email, ub.Password)

		s.Require().ErrorIs(err, commands.ErrInvalidCredentials)
	})

	s.Run("wrong password maps to ErrInvalidCredentials", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)

		err = s.uc.StartLogin(context.Background(), ub.Email, "not-the-password")

		s.Require().ErrorIs(err, commands.ErrInvalidCredentials)
	})

	s.Run("inactive account maps to ErrAccountInactive", func() {
		account, err := builder.NewUserBuilder().WithPasswordHash(hash).AsInactive().BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)

		err = s.uc.StartLogin(context.Background(), ub.Email, ub.Password)

		s.Require().ErrorIs(err, commands.ErrAccountInactive)
	})
}

func (s *AuthUsecaseTestSuite) TestCompleteLogin() {
	ub := builder.NewUserBuilder()
	const code = "123456"

	activeRecord := func(userID uuid.UUID) *commands.AuthTokenRecord {
		return &commands.AuthTokenRecord{
			ID:        uuid.New(),
			UserID:    userID,
			Purpose:   commands.TokenPurposeOTP,
			TokenHash: tokenDigest(code),
			ExpiresAt: fixedNow.Add(5 * time.Minute),
		}
	}

	s.Run("success: consumes the code, records the login, issues a token", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)
		rec := activeRecord(account.ID())

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)
		s.tokens.EXPECT().FindActiveByUser(gomock.Any(), gomock.Any(), account.ID(), commands.TokenPurposeOTP, fixedNow).
			Return(rec, nil)
		s.tokens.EXPECT().Consume(gomock.Any(), gomock.Any(), rec.ID, fixedNow).Return(nil)
		s.users.EXPECT().RecordLogin(gomock.Any(), gomock.Any(), account.ID(), fixedNow).Return(nil)

		token, got, err := s.uc.CompleteLogin(context.Background(), ub.Email, code)

		s.Require().NoError(err)
		s.Equal(account.ID(), got.ID())
		claims, err := s.jwtSvc.ValidateToken(token)
		s.Require().NoError(err)
		s.Equal(account.ID(), claims.UserID)
	})

	s.Run("wrong code maps to ErrInvalidOTP", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)
		s.tokens.EXPECT().FindActiveByUser(gomock.Any(), gomock.Any(), account.ID(), commands.TokenPurposeOTP, fixedNow).
			Return(activeRecord(account.ID()), nil)

		_, _, err = s.uc.CompleteLogin(context.Background(), ub.Email, "999999")

		s.Require().ErrorIs(err, commands.ErrInvalidOTP)
	})

	s.Run("no active code maps to ErrInvalidOTP", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)
		s.tokens.EXPECT().FindActiveByUser(gomock.Any(), gomock.Any(), account.ID(), commands.TokenPurposeOTP, fixedNow).
			Return(nil, infra.WrapRepoErr("find token", nil, infra.KindNotFound))

		_, _, err = s.uc.CompleteLogin(context.Background(), ub.Email, code)

		s.Require().ErrorIs(err, commands.ErrInvalidOTP)
	})

	s.Run("already consumed code maps to ErrInvalidOTP", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)
		rec := activeRecord(account.ID())

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)
		s.tokens.EXPECT().FindActiveByUser(gomock.Any(), gomock.Any(), account.ID(), commands.TokenPurposeOTP, fixedNow).
			Return(rec, nil)
		s.tokens.EXPECT().Consume(gomock.Any(), gomock.Any(), rec.ID, fixedNow).
			Return(infra.WrapRepoErr("consume token", nil, infra.KindNotFound))

		_, _, err = s.uc.CompleteLogin(context.Background(), ub.Email, code)

		s.Require().ErrorIs(err, commands.ErrInvalidOTP)
	})
}

func (s *AuthUsecaseTestSuite) TestRequestPasswordReset() {
	ub := builder.NewUserBuilder()

	s.Run("success: stores a reset record and mails the token", func() {
		account, err := ub.BuildDomain()
		s.Require().NoError(err)

		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).Return(account, nil)

		var rec commands.AuthTokenRecord
		s.tokens.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Queryer, r commands.AuthTokenRecord) error {
				rec = r
				return nil
			})
		s.mailer.EXPECT().Send(gomock.Any(), ub.Email, "Password reset", gomock.Any()).Return(nil)

		s.Require().NoError(s.uc.RequestPasswordReset(context.Background(), ub.Email))

		s.Equal(commands.TokenPurposePasswordReset, rec.Purpose)
		s.Equal(fixedNow.Add(s.cfg.ResetLifetime), rec.ExpiresAt)
	})

	s.Run("unknown email reports success and sends nothing", func() {
		s.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("find user", nil, infra.KindNotFound))

		s.Require().NoError(s.uc.RequestPasswordReset(context.Background(), ub.Email))
	})

	s.Run("malformed email reports success and sends nothing", func() {
		s.Require().NoError(s.uc.RequestPasswordReset(context.Background(), "not-an-email"))
	})
}

func (s *AuthUsecaseTestSuite) TestResetPassword() {
	const token = "a3f1c6e9b2d4f8a0c1e3b5d7f9a1c3e5a3f1c6e9b2d4f8a0c1e3b5d7f9a1c3e5"

	s.Run("success: consumes the token and replaces the password hash", func() {
		rec := &commands.AuthTokenRecord{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Purpose:   commands.TokenPurposePasswordReset,
			TokenHash: tokenDigest(token),
			ExpiresAt: fixedNow.Add(30 * time.Minute),
		}

		s.tokens.EXPECT().FindActiveByHash(gomock.Any(), gomock.Any(), tokenDigest(token), commands.TokenPurposePasswordReset, fixedNow).
			Return(rec, nil)
		s.tokens.EXPECT().Consume(gomock.Any(), gomock.Any(), rec.ID, fixedNow).Return(nil)

		var storedHash string
		s.users.EXPECT().UpdatePasswordHash(gomock.Any(), gomock.Any(), rec.UserID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ db.Queryer, _ uuid.UUID, hash string) error {
				storedHash = hash
				return nil
			})

		s.Require().NoError(s.uc.ResetPassword(context.Background(), token, "NewPassword456!"))
		s.Require().NoError(password.ComparePassword(storedHash, "NewPassword456!"))
	})

	s.Run("unknown token maps to ErrInvalidResetToken", func() {
		s.tokens.EXPECT().FindActiveByHash(gomock.Any(), gomock.Any(), tokenDigest(token), commands.TokenPurposePasswordReset, fixedNow).
			Return(nil, infra.WrapRepoErr("find token", nil, infra.KindNotFound))

		err := s.uc.ResetPassword(context.Background(), token, "NewPassword456!")

		s.Require().ErrorIs(err, commands.ErrInvalidResetToken)
	})
}

func (s *AuthUsecaseTestSuite) TestPurgeExpiredTokens() {
	s.tokens.EXPECT().DeleteExpired(gomock.Any(), gomock.Any(), fixedNow).Return(int64(3), nil)

	n, err := s.uc.PurgeExpiredTokens(context.Background())

	s.Require().NoError(err)
	s.Equal(int64(3), n)
}
