// Package contact stores contact form submissions.
package contact

import (
	"context"
	"errors"
	"strings"

	"farmhith/apperrors"
	"farmhith/logger"
	contactModel "farmhith/models/contact"
	"farmhith/repository"
	contactTypes "farmhith/types/contact"
	"farmhith/validation"
)

type Service struct {
	repo repository.ContactRepository
}

func NewService(repo repository.ContactRepository) *Service {
	return &Service{repo: repo}
}

// SubmitContactMessage validates and stores a message with status "new".
func (s *Service) SubmitContactMessage(ctx context.Context, data contactTypes.ContactMessageRequest) (*contactModel.Message, error) {
	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)
	data.Subject = strings.TrimSpace(data.Subject)
	if err := validation.Struct(data).Err(); err != nil {
		logger.Warnw("Contact message validation failed", "error", err.Error())
		return nil, err
	}

	m := &contactModel.Message{
		Name:    data.Name,
		Email:   data.Email,
		Phone:   data.Phone,
		Subject: data.Subject,
		Message: data.Message,
		Status:  contactModel.StatusNew,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		logger.Errorw("Error submitting contact message", "error", err.Error())
		return nil, apperrors.OperationFailed("send message", err)
	}

	logger.Infow("Contact message submitted", "messageId", m.ID)
	return m, nil
}

func (s *Service) ListContactMessages(ctx context.Context, f repository.ContactFilter) ([]contactModel.Message, int64, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, 0, &apperrors.ValidationError{Fields: []apperrors.FieldError{{Field: "status", Message: "Invalid message status"}}}
	}

	messages, total, err := s.repo.List(ctx, f)
	if err != nil {
		logger.Errorw("Error listing contact messages", "error", err.Error())
		return nil, 0, apperrors.OperationFailed("list messages", err)
	}
	return messages, total, nil
}

func (s *Service) UpdateContactStatus(ctx context.Context, id string, req contactTypes.UpdateContactStatusRequest) (*contactModel.Message, error) {
	if err := validation.Struct(req).Err(); err != nil {
		return nil, err
	}

	m, err := s.repo.UpdateStatus(ctx, id, contactModel.Status(req.Status))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("Message not found.")
		}
		logger.Errorw("Error updating contact message", "messageId", id, "error", err.Error())
		return nil, apperrors.OperationFailed("update message", err)
	}

	logger.Infow("Contact message status updated", "messageId", id, "status", req.Status)
	return m, nil
}
