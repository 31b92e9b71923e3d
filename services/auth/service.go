// Package auth owns sessions: admin password sign-in, farmer phone OTP login, token refresh
// and the farmer profile attached to a session.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"farmhith/apperrors"
	"farmhith/constants"
	"farmhith/logger"
	otpModel "farmhith/models/otp"
	sessionModel "farmhith/models/session"
	"farmhith/models/user"
	"farmhith/repository"
	otpService "farmhith/services/otp"
	authTypes "farmhith/types/auth"
	otpTypes "farmhith/types/otp"
	profileTypes "farmhith/types/profile"
	"farmhith/utils"
	"farmhith/validation"

	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidAdmin  = "Invalid admin credentials"
	msgAdminRequired = "Access denied: Admin privileges required"
	msgNotSignedIn   = "Not authenticated"
	msgBadRefresh    = "Session expired. Login again."
)

// Session is the authenticated caller as seen by handlers.
type Session struct {
	ID        string                `json:"id"`
	User      authTypes.SessionUser `json:"user"`
	ExpiresAt time.Time             `json:"expires_at"`
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == constants.RoleAdmin
}

type Service struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	sessions repository.SessionRepository
	otp      *otpService.Service
	tokens   *TokenIssuer
	now      func() time.Time
}

func NewService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	sessions repository.SessionRepository,
	otp *otpService.Service,
	tokens *TokenIssuer,
) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		sessions: sessions,
		otp:      otp,
		tokens:   tokens,
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.now = clock
	return s
}

// SignInAdmin checks email and password, opens a session and then insists on the admin role.
// A valid non-admin account is signed straight back out and gets AccessDeniedError.
func (s *Service) SignInAdmin(ctx context.Context, creds authTypes.AdminCredentials, userAgent string) (*authTypes.SessionResponse, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := validation.Struct(creds).Err(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warnw("Admin sign-in with unknown email", "email", creds.Email)
			return nil, apperrors.NewUnauthenticated(msgInvalidAdmin)
		}
		logger.Errorw("Error signing in admin", "error", err.Error())
		return nil, apperrors.OperationFailed("sign in", err)
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)) != nil {
		logger.Warnw("Admin sign-in with wrong password", "userId", u.ID)
		return nil, apperrors.NewUnauthenticated(msgInvalidAdmin)
	}

	resp, sess, err := s.startSession(ctx, u, userAgent)
	if err != nil {
		return nil, err
	}

	if u.Role != constants.RoleAdmin {
		if err := s.SignOut(ctx, sess.ID); err != nil {
			return nil, err
		}
		logger.Warnw("Non-admin attempted admin sign-in", "userId", u.ID)
		return nil, apperrors.NewAccessDenied(msgAdminRequired)
	}

	s.recordSignIn(ctx, u, false)
	logger.Infow("Admin signed in", "userId", u.ID)
	return resp, nil
}

// SignOut revokes a session. Revoking an already revoked session is not an error.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID, s.now()); err != nil {
		logger.Errorw("Error signing out", "sessionId", sessionID, "error", err.Error())
		return apperrors.OperationFailed("sign out", err)
	}
	logger.Infow("Session signed out", "sessionId", sessionID)
	return nil
}

// GetSession resolves an access token. It returns nil without error for a missing, invalid,
// expired or revoked token.
func (s *Service) GetSession(ctx context.Context, accessToken string) (*Session, error) {
	if accessToken == "" {
		return nil, nil
	}

	now := s.now()
	claims, err := s.tokens.Parse(accessToken, now)
	if err != nil {
		logger.Debug("Rejected access token: " + err.Error())
		return nil, nil
	}

	sess, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.OperationFailed("get session", err)
	}
	if !sess.IsActive(now) || sess.UserID != claims.Subject {
		return nil, nil
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.OperationFailed("get session", err)
	}

	return &Session{
		ID:        sess.ID,
		User:      sessionUser(u),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// GetCurrentAdminSession returns the session only when it belongs to an admin.
func (s *Service) GetCurrentAdminSession(ctx context.Context, accessToken string) (*Session, error) {
	sess, err := s.GetSession(ctx, accessToken)
	if err != nil || !sess.IsAdmin() {
		return nil, err
	}
	return sess, nil
}

// IsAdminAuthenticated treats lookup failures as not authenticated.
func (s *Service) IsAdminAuthenticated(ctx context.Context, accessToken string) bool {
	sess, err := s.GetCurrentAdminSession(ctx, accessToken)
	if err != nil {
		logger.Error("Error checking admin session", err)
		return false
	}
	return sess != nil
}

// RefreshSession rotates the refresh token and issues a new access token.
func (s *Service) RefreshSession(ctx context.Context, req authTypes.RefreshRequest) (*authTypes.SessionResponse, error) {
	return s.refresh(ctx, req, false)
}

// RefreshAdminSession is RefreshSession plus the admin role check; non-admins are signed out.
func (s *Service) RefreshAdminSession(ctx context.Context, req authTypes.RefreshRequest) (*authTypes.SessionResponse, error) {
	return s.refresh(ctx, req, true)
}

func (s *Service) refresh(ctx context.Context, req authTypes.RefreshRequest, adminOnly bool) (*authTypes.SessionResponse, error) {
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	now := s.now()
	sess, err := s.sessions.GetByRefreshTokenHash(ctx, hashRefreshToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated(msgBadRefresh)
		}
		return nil, apperrors.OperationFailed("refresh session", err)
	}
	if !sess.IsActive(now) {
		return nil, apperrors.NewUnauthenticated(msgBadRefresh)
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated(msgBadRefresh)
		}
		return nil, apperrors.OperationFailed("refresh session", err)
	}

	if adminOnly && u.Role != constants.RoleAdmin {
		if err := s.SignOut(ctx, sess.ID); err != nil {
			return nil, err
		}
		return nil, apperrors.NewAccessDenied(msgAdminRequired)
	}

	refreshToken, hash, err := newRefreshToken()
	if err != nil {
		return nil, apperrors.OperationFailed("refresh session", err)
	}
	if err := s.sessions.Rotate(ctx, sess.ID, hash, now.Add(s.tokens.refreshTTL)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthenticated(msgBadRefresh)
		}
		return nil, apperrors.OperationFailed("refresh session", err)
	}

	access, expiresAt, err := s.tokens.Sign(u, sess.ID, now)
	if err != nil {
		return nil, apperrors.OperationFailed("refresh session", err)
	}

	logger.Infow("Session refreshed", "sessionId", sess.ID, "userId", u.ID)
	return &authTypes.SessionResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User:         sessionUser(u),
	}, nil
}

// SendPhoneOTP sends a login code to a 10-digit Indian mobile.
func (s *Service) SendPhoneOTP(ctx context.Context, req otpTypes.SendOTPRequest) (*otpTypes.OTPResponse, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}
	phone := utils.NormalizePhone(req.Phone)

	record, err := s.otp.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	if err != nil {
		var blocked *otpService.BlockedError
		if errors.Is(err, otpService.ErrOTPActive) || errors.As(err, &blocked) {
			return nil, apperrors.NewRateLimited(err.Error())
		}
		logger.Errorw("Error sending OTP", "phone", phone, "error", err.Error())
		return nil, apperrors.OperationFailed("send OTP", err)
	}

	return &otpTypes.OTPResponse{
		Phone:     phone,
		ExpiresAt: record.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// VerifyPhoneOTP exchanges a code for a session, creating the farmer account on first login.
func (s *Service) VerifyPhoneOTP(ctx context.Context, req otpTypes.VerifyOTPRequest, userAgent string) (*authTypes.SessionResponse, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.OTP = strings.TrimSpace(req.OTP)
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}
	phone := utils.NormalizePhone(req.Phone)

	if _, err := s.otp.VerifyOTP(ctx, phone, req.OTP, otpModel.OTPPurposeLogin); err != nil {
		var (
			blocked *otpService.BlockedError
			invalid *otpService.InvalidCodeError
		)
		switch {
		case errors.As(err, &blocked):
			return nil, apperrors.NewRateLimited(err.Error())
		case errors.As(err, &invalid), errors.Is(err, otpService.ErrNoOTP), errors.Is(err, otpService.ErrExpired):
			return nil, apperrors.NewUnauthenticated(err.Error())
		default:
			logger.Errorw("Error verifying OTP", "phone", phone, "error", err.Error())
			return nil, apperrors.OperationFailed("verify OTP", err)
		}
	}

	u, err := s.users.GetByPhone(ctx, phone)
	if errors.Is(err, repository.ErrNotFound) {
		u = &user.User{Phone: &phone, PhoneVerified: true, Role: constants.RoleFarmer}
		err = s.users.Create(ctx, u)
		if err == nil {
			logger.Infow("Farmer account created", "userId", u.ID)
		}
	}
	if err != nil {
		logger.Errorw("Error loading user for OTP login", "phone", phone, "error", err.Error())
		return nil, apperrors.OperationFailed("verify OTP", err)
	}

	resp, _, err := s.startSession(ctx, u, userAgent)
	if err != nil {
		return nil, err
	}
	s.recordSignIn(ctx, u, true)
	logger.Infow("Farmer signed in", "userId", u.ID)
	return resp, nil
}

// CreateOrUpdateUserProfile upserts the caller's profile. Only fields present in req change,
// and the phone always comes from the session user.
func (s *Service) CreateOrUpdateUserProfile(ctx context.Context, sess *Session, req profileTypes.ProfileRequest) (*user.Profile, error) {
	if sess == nil {
		return nil, apperrors.NewUnauthenticated(msgNotSignedIn)
	}
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByUserID(ctx, sess.User.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		p = &user.Profile{UserID: sess.User.ID}
	case err != nil:
		return nil, apperrors.OperationFailed("save profile", err)
	}

	p.Phone = sess.User.Phone
	mergeProfile(p, req)

	if err := s.profiles.Upsert(ctx, p); err != nil {
		logger.Errorw("Error saving profile", "userId", sess.User.ID, "error", err.Error())
		return nil, apperrors.OperationFailed("save profile", err)
	}
	logger.Infow("Profile saved", "userId", sess.User.ID)
	return p, nil
}

func (s *Service) GetCurrentUserProfile(ctx context.Context, sess *Session) (*user.Profile, error) {
	if sess == nil {
		return nil, apperrors.NewUnauthenticated(msgNotSignedIn)
	}

	p, err := s.profiles.GetByUserID(ctx, sess.User.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Profile not found.")
		}
		return nil, apperrors.OperationFailed("fetch profile", err)
	}
	return p, nil
}

func (s *Service) recordSignIn(ctx context.Context, u *user.User, phoneVerified bool) {
	if err := s.users.MarkSignedIn(ctx, u.ID, s.now(), phoneVerified); err != nil {
		logger.Error("Failed to record sign-in time", err)
	}
}

func (s *Service) startSession(ctx context.Context, u *user.User, userAgent string) (*authTypes.SessionResponse, *sessionModel.Session, error) {
	now := s.now()

	refreshToken, hash, err := newRefreshToken()
	if err != nil {
		return nil, nil, apperrors.OperationFailed("create session", err)
	}

	if len(userAgent) > 512 {
		userAgent = userAgent[:512]
	}
	sess := &sessionModel.Session{
		UserID:           u.ID,
		RefreshTokenHash: hash,
		ExpiresAt:        now.Add(s.tokens.refreshTTL),
		UserAgent:        userAgent,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, apperrors.OperationFailed("create session", err)
	}

	access, expiresAt, err := s.tokens.Sign(u, sess.ID, now)
	if err != nil {
		return nil, nil, apperrors.OperationFailed("create session", err)
	}

	return &authTypes.SessionResponse{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
		User:         sessionUser(u),
	}, sess, nil
}

func sessionUser(u *user.User) authTypes.SessionUser {
	return authTypes.SessionUser{
		ID:    u.ID,
		Email: u.EmailAddress(),
		Phone: u.PhoneNumber(),
		Role:  u.Role,
	}
}

func mergeProfile(p *user.Profile, req profileTypes.ProfileRequest) {
	set := func(dst **string, src *string) {
		if src != nil {
			v := strings.TrimSpace(*src)
			*dst = &v
		}
	}
	set(&p.FullName, req.FullName)
	set(&p.Email, req.Email)
	set(&p.Village, req.Village)
	set(&p.District, req.District)
	set(&p.State, req.State)
	set(&p.Address, req.Address)
	set(&p.FarmDetails, req.FarmDetails)
}
