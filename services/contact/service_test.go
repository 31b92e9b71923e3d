package contact_test

import (
	"context"
	"strings"
	"testing"

	"farmhith/apperrors"
	contactModel "farmhith/models/contact"
	"farmhith/repository"
	contactService "farmhith/services/contact"
	contactTypes "farmhith/types/contact"
	"farmhith/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() contactTypes.ContactMessageRequest {
	return contactTypes.ContactMessageRequest{
		Name:    "Asha",
		Email:   "asha@example.com",
		Phone:   "9876543210",
		Subject: "Soil test for paddy",
		Message: "Please call me about a soil test.",
	}
}

func TestSubmitContactMessage(t *testing.T) {
	svc := contactService.NewService(repository.NewGormContactRepository(testutil.NewDB(t)))

	m, err := svc.SubmitContactMessage(context.Background(), validMessage())
	require.NoError(t, err)
	assert.Equal(t, contactModel.StatusNew, m.Status)
	assert.NotEmpty(t, m.ID)
}

func TestSubmitContactMessage_LengthBounds(t *testing.T) {
	svc := contactService.NewService(repository.NewGormContactRepository(testutil.NewDB(t)))

	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{"nine characters", "too short", true},
		{"ten characters", "0123456789", false},
		{"thousand characters", strings.Repeat("a", 1000), false},
		{"over a thousand", strings.Repeat("a", 1001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validMessage()
			req.Message = tt.message
			_, err := svc.SubmitContactMessage(context.Background(), req)
			if tt.wantErr {
				var verr *apperrors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.True(t, verr.HasField("message"))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSubmitContactMessage_InvalidEmailAndPhone(t *testing.T) {
	svc := contactService.NewService(repository.NewGormContactRepository(testutil.NewDB(t)))
	req := validMessage()
	req.Email = "not-an-email"
	req.Phone = "12345"

	_, err := svc.SubmitContactMessage(context.Background(), req)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.HasField("email"))
	assert.True(t, verr.HasField("phone"))
}

func TestUpdateContactStatus(t *testing.T) {
	svc := contactService.NewService(repository.NewGormContactRepository(testutil.NewDB(t)))
	ctx := context.Background()

	m, err := svc.SubmitContactMessage(ctx, validMessage())
	require.NoError(t, err)

	updated, err := svc.UpdateContactStatus(ctx, m.ID, contactTypes.UpdateContactStatusRequest{Status: "read"})
	require.NoError(t, err)
	assert.Equal(t, contactModel.StatusRead, updated.Status)

	_, err = svc.UpdateContactStatus(ctx, m.ID, contactTypes.UpdateContactStatusRequest{Status: "deleted"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.UpdateContactStatus(ctx, "missing", contactTypes.UpdateContactStatusRequest{Status: "read"})
	assert.True(t, apperrors.IsNotFound(err))
}
