package auth_test

import (
	"context"
	"testing"
	"time"

	"farmhith/apperrors"
	"farmhith/constants"
	"farmhith/database/seeders"
	sessionModel "farmhith/models/session"
	"farmhith/models/user"
	"farmhith/repository"
	authService "farmhith/services/auth"
	otpService "farmhith/services/otp"
	authTypes "farmhith/types/auth"
	otpTypes "farmhith/types/otp"
	profileTypes "farmhith/types/profile"
	"farmhith/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type nopSender struct{ last string }

func (n *nopSender) SendOTP(_ context.Context, _ string, code string) error {
	n.last = code
	return nil
}

type fixture struct {
	db     *gorm.DB
	svc    *authService.Service
	sender *nopSender
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	sender := &nopSender{}
	otp := otpService.NewOTPService(repository.NewGormOTPRepository(db), sender)
	svc := authService.NewService(
		repository.NewGormUserRepository(db),
		repository.NewGormProfileRepository(db),
		repository.NewGormSessionRepository(db),
		otp,
		authService.NewTokenIssuer("test-secret", time.Hour, 24*time.Hour),
	)
	return &fixture{db: db, svc: svc, sender: sender}
}

func (f *fixture) createUser(t *testing.T, email, password, role string) *user.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{Email: &email, PasswordHash: string(hash), Role: role}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) activeSessions(t *testing.T, userID string) int64 {
	var n int64
	require.NoError(t, f.db.Model(&sessionModel.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Count(&n).Error)
	return n
}

func TestSignInAdmin_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin, err := seeders.SeedAdmin(f.db, "Admin@FarmHith.in", "secret123")
	require.NoError(t, err)

	resp, err := f.svc.SignInAdmin(ctx, authTypes.AdminCredentials{Email: "admin@farmhith.in", Password: "secret123"}, "test")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, constants.RoleAdmin, resp.User.Role)
	assert.NotEmpty(t, resp.RefreshToken)

	sess, err := f.svc.GetCurrentAdminSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, admin.ID, sess.User.ID)
	assert.True(t, f.svc.IsAdminAuthenticated(ctx, resp.AccessToken))

	var stored user.User
	require.NoError(t, f.db.First(&stored, "id = ?", admin.ID).Error)
	assert.NotNil(t, stored.LastSignInAt)
}

func TestSignInAdmin_NonAdminIsSignedOut(t *testing.T) {
	f := newFixture(t)
	farmer := f.createUser(t, "farmer@example.com", "secret123", constants.RoleFarmer)

	_, err := f.svc.SignInAdmin(context.Background(), authTypes.AdminCredentials{Email: "farmer@example.com", Password: "secret123"}, "test")
	require.Error(t, err)
	assert.True(t, apperrors.IsAccessDenied(err))
	assert.Equal(t, "Access denied: Admin privileges required", err.Error())
	assert.Zero(t, f.activeSessions(t, farmer.ID))

	var stored user.User
	require.NoError(t, f.db.First(&stored, "id = ?", farmer.ID).Error)
	assert.Nil(t, stored.LastSignInAt)
}

func TestSignInAdmin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "admin@example.com", "secret123", constants.RoleAdmin)

	_, err := f.svc.SignInAdmin(context.Background(), authTypes.AdminCredentials{Email: "admin@example.com", Password: "wrong-pass"}, "")
	assert.True(t, apperrors.IsUnauthenticated(err))
	assert.Equal(t, "Invalid admin credentials", err.Error())

	_, err = f.svc.SignInAdmin(context.Background(), authTypes.AdminCredentials{Email: "nobody@example.com", Password: "secret123"}, "")
	assert.True(t, apperrors.IsUnauthenticated(err))

	_, err = f.svc.SignInAdmin(context.Background(), authTypes.AdminCredentials{Email: "not-an-email", Password: "x"}, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSignOut_InvalidatesAccessToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "admin@example.com", "secret123", constants.RoleAdmin)

	resp, err := f.svc.SignInAdmin(ctx, authTypes.AdminCredentials{Email: "admin@example.com", Password: "secret123"}, "")
	require.NoError(t, err)
	sess, err := f.svc.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, sess)

	require.NoError(t, f.svc.SignOut(ctx, sess.ID))

	sess, err = f.svc.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.False(t, f.svc.IsAdminAuthenticated(ctx, resp.AccessToken))
}

func TestGetSession_RejectsGarbageAndExpiredTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, err := f.svc.GetSession(ctx, "")
	assert.NoError(t, err)
	assert.Nil(t, sess)

	sess, err = f.svc.GetSession(ctx, "not.a.jwt")
	assert.NoError(t, err)
	assert.Nil(t, sess)

	f.createUser(t, "admin@example.com", "secret123", constants.RoleAdmin)
	resp, err := f.svc.SignInAdmin(ctx, authTypes.AdminCredentials{Email: "admin@example.com", Password: "secret123"}, "")
	require.NoError(t, err)

	f.svc.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	sess, err = f.svc.GetSession(ctx, resp.AccessToken)
	assert.NoError(t, err)
	assert.Nil(t, sess)
}

func TestRefreshSession_RotatesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "admin@example.com", "secret123", constants.RoleAdmin)

	first, err := f.svc.SignInAdmin(ctx, authTypes.AdminCredentials{Email: "admin@example.com", Password: "secret123"}, "")
	require.NoError(t, err)

	second, err := f.svc.RefreshAdminSession(ctx, authTypes.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.svc.RefreshSession(ctx, authTypes.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestRefreshAdminSession_FarmerIsSignedOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendPhoneOTP(ctx, otpTypes.SendOTPRequest{Phone: "9876543210"})
	require.NoError(t, err)
	resp, err := f.svc.VerifyPhoneOTP(ctx, otpTypes.VerifyOTPRequest{Phone: "9876543210", OTP: f.sender.last}, "")
	require.NoError(t, err)

	_, err = f.svc.RefreshAdminSession(ctx, authTypes.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.True(t, apperrors.IsAccessDenied(err))
	assert.Zero(t, f.activeSessions(t, resp.User.ID))
}

func TestPhoneOTPLogin_CreatesFarmerOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sent, err := f.svc.SendPhoneOTP(ctx, otpTypes.SendOTPRequest{Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", sent.Phone)

	_, err = f.svc.SendPhoneOTP(ctx, otpTypes.SendOTPRequest{Phone: "9876543210"})
	assert.True(t, apperrors.IsRateLimited(err))

	_, err = f.svc.VerifyPhoneOTP(ctx, otpTypes.VerifyOTPRequest{Phone: "9876543210", OTP: "000000"}, "")
	assert.True(t, apperrors.IsUnauthenticated(err))

	first, err := f.svc.VerifyPhoneOTP(ctx, otpTypes.VerifyOTPRequest{Phone: "9876543210", OTP: f.sender.last}, "")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleFarmer, first.User.Role)
	assert.Equal(t, "+919876543210", first.User.Phone)

	var users int64
	require.NoError(t, f.db.Model(&user.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	sess, err := f.svc.GetSession(ctx, first.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.False(t, sess.IsAdmin())
}

func TestVerifyPhoneOTP_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.VerifyPhoneOTP(context.Background(), otpTypes.VerifyOTPRequest{Phone: "1234567890", OTP: "12"}, "")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("phone"))
	assert.True(t, verr.HasField("otp"))

	_, err = f.svc.VerifyPhoneOTP(context.Background(), otpTypes.VerifyOTPRequest{Phone: "9876543210", OTP: "123456"}, "")
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestProfile_PhoneComesFromSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetCurrentUserProfile(ctx, nil)
	assert.True(t, apperrors.IsUnauthenticated(err))

	_, err = f.svc.SendPhoneOTP(ctx, otpTypes.SendOTPRequest{Phone: "9876543210"})
	require.NoError(t, err)
	resp, err := f.svc.VerifyPhoneOTP(ctx, otpTypes.VerifyOTPRequest{Phone: "9876543210", OTP: f.sender.last}, "")
	require.NoError(t, err)
	sess, err := f.svc.GetSession(ctx, resp.AccessToken)
	require.NoError(t, err)

	_, err = f.svc.GetCurrentUserProfile(ctx, sess)
	assert.True(t, apperrors.IsNotFound(err))

	name := "Ramesh Kumar"
	p, err := f.svc.CreateOrUpdateUserProfile(ctx, sess, profileTypes.ProfileRequest{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", p.Phone)

	village := "Rampur"
	_, err = f.svc.CreateOrUpdateUserProfile(ctx, sess, profileTypes.ProfileRequest{Village: &village})
	require.NoError(t, err)

	got, err := f.svc.GetCurrentUserProfile(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, got.FullName)
	require.NotNil(t, got.Village)
	assert.Equal(t, "Ramesh Kumar", *got.FullName)
	assert.Equal(t, "Rampur", *got.Village)
	assert.Equal(t, "+919876543210", got.Phone)
}
