package otp_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	otpModel "farmhith/models/otp"
	"farmhith/repository"
	otpService "farmhith/services/otp"
	"farmhith/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const phone = "+919876543210"

type recordingSender struct {
	codes []string
	err   error
}

func (r *recordingSender) SendOTP(_ context.Context, _ string, code string) error {
	r.codes = append(r.codes, code)
	return r.err
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fixedCode(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

func newService(t *testing.T) (*otpService.Service, *recordingSender, *clock, *gorm.DB) {
	db := testutil.NewDB(t)
	sender := &recordingSender{}
	c := &clock{t: time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)}
	svc := otpService.NewOTPService(repository.NewGormOTPRepository(db), sender).
		WithClock(c.now).
		WithGenerator(fixedCode("123456"))
	return svc, sender, c, db
}

func TestGenerateOTP_SixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := otpService.GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		assert.NotEqual(t, byte('0'), code[0])
	}
}

func TestSendAndVerify(t *testing.T) {
	svc, sender, _, db := newService(t)
	ctx := context.Background()

	record, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	assert.Equal(t, []string{"123456"}, sender.codes)
	assert.NotEqual(t, "123456", record.CodeHash)

	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	// a used code cannot be replayed
	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	assert.ErrorIs(t, err, otpService.ErrNoOTP)

	var verified int64
	require.NoError(t, db.Model(&otpModel.OTPEvent{}).Where("event_type = ?", otpModel.EventVerified).Count(&verified).Error)
	assert.EqualValues(t, 1, verified)
}

func TestSendOTP_RefusesWhileActive(t *testing.T) {
	svc, _, c, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	_, err = svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	assert.ErrorIs(t, err, otpService.ErrOTPActive)

	c.advance(otpService.DefaultTTL + time.Second)
	_, err = svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	assert.NoError(t, err)
}

func TestSendOTP_DeliveryFailureKeepsCode(t *testing.T) {
	svc, sender, _, _ := newService(t)
	sender.err = errors.New("gateway down")
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	assert.NoError(t, err)
}

func TestVerifyOTP_Expired(t *testing.T) {
	svc, _, c, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	c.advance(otpService.DefaultTTL + time.Second)

	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	assert.ErrorIs(t, err, otpService.ErrExpired)
}

func TestVerifyOTP_BlocksAfterMaxRetries(t *testing.T) {
	svc, _, c, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	for remaining := otpService.DefaultMaxRetries - 1; remaining >= 0; remaining-- {
		_, err = svc.VerifyOTP(ctx, phone, "000000", otpModel.OTPPurposeLogin)
		var invalid *otpService.InvalidCodeError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, remaining, invalid.Remaining)
	}

	// even the right code is refused while blocked
	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	var blocked *otpService.BlockedError
	require.ErrorAs(t, err, &blocked)
	require.NotNil(t, blocked.Until)
	assert.WithinDuration(t, c.now().Add(otpModel.BlockDuration), *blocked.Until, time.Second)

	_, err = svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	assert.ErrorAs(t, err, &blocked)

	info, err := svc.GetOTPRetryInfo(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	assert.True(t, info.IsBlocked)
	assert.False(t, info.CanRequestNewOTP)

	c.advance(otpModel.BlockDuration + time.Second)
	reset, err := svc.CleanupExpiredBlocks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reset)

	_, err = svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	assert.NoError(t, err)
}

func TestVerifyOTP_ConcurrentWrongCodesStopAtMaxRetries(t *testing.T) {
	svc, _, _, db := newService(t)
	ctx := context.Background()

	record, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.VerifyOTP(ctx, phone, "000000", otpModel.OTPPurposeLogin)
		}(i)
	}
	wg.Wait()

	invalid := 0
	for _, err := range errs {
		var inv *otpService.InvalidCodeError
		if errors.As(err, &inv) {
			invalid++
			continue
		}
		var blocked *otpService.BlockedError
		assert.ErrorAs(t, err, &blocked)
	}
	assert.Equal(t, otpService.DefaultMaxRetries, invalid)

	var stored otpModel.OTP
	require.NoError(t, db.First(&stored, record.ID).Error)
	assert.Equal(t, otpService.DefaultMaxRetries, stored.RetryCount)
	assert.True(t, stored.IsBlocked)

	// the right code no longer helps
	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	var blocked *otpService.BlockedError
	assert.ErrorAs(t, err, &blocked)
}

func TestVerifyOTP_ConcurrentCorrectCodesVerifyOnce(t *testing.T) {
	svc, _, _, db := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
		}(i)
	}
	wg.Wait()

	verified := 0
	for _, err := range errs {
		if err == nil {
			verified++
			continue
		}
		assert.ErrorIs(t, err, otpService.ErrNoOTP)
	}
	assert.Equal(t, 1, verified)

	var events int64
	require.NoError(t, db.Model(&otpModel.OTPEvent{}).Where("event_type = ?", otpModel.EventVerified).Count(&events).Error)
	assert.EqualValues(t, 1, events)
}

func TestVerifyOTP_ElapsedBlockIsReleased(t *testing.T) {
	svc, _, c, db := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	for i := 0; i < otpService.DefaultMaxRetries; i++ {
		_, _ = svc.VerifyOTP(ctx, phone, "000000", otpModel.OTPPurposeLogin)
	}

	// the block lifts but the code itself outlived its TTL
	c.advance(otpModel.BlockDuration + time.Second)
	record, err := svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	assert.ErrorIs(t, err, otpService.ErrExpired)

	var stored otpModel.OTP
	require.NoError(t, db.First(&stored, record.ID).Error)
	assert.False(t, stored.IsBlocked)
	assert.Zero(t, stored.RetryCount)
}

func TestUnblockOTP(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	assert.Error(t, svc.UnblockOTP(ctx, phone, otpModel.OTPPurposeLogin))

	for i := 0; i < otpService.DefaultMaxRetries; i++ {
		_, _ = svc.VerifyOTP(ctx, phone, "000000", otpModel.OTPPurposeLogin)
	}
	require.NoError(t, svc.UnblockOTP(ctx, phone, otpModel.OTPPurposeLogin))

	_, err = svc.VerifyOTP(ctx, phone, "123456", otpModel.OTPPurposeLogin)
	assert.NoError(t, err)
}

func TestGetOTPRetryInfo_NoOTP(t *testing.T) {
	svc, _, _, _ := newService(t)

	info, err := svc.GetOTPRetryInfo(context.Background(), phone, otpModel.OTPPurposeLogin)
	require.NoError(t, err)
	assert.True(t, info.CanRequestNewOTP)
	assert.Equal(t, otpService.DefaultMaxRetries, info.RemainingRetries)
}
