package services

import (
	"context"
	"time"

	"archived_backend/internal/email"
	"archived_backend/internal/logger"
	"archived_backend/internal/metrics"
	"archived_backend/internal/ratelimit"
	"archived_backend/internal/services/dto"
	"archived_backend/pkg/apperrors"
)

const (
	contactSuccessMessage      = "Contact form submitted successfully"
	contactConfirmationSubject = "We received your message - ARCHIVED"
	contactAdminSubjectPrefix  = "Contact Form: "
)

type ContactService interface {
	// Submit учитывает попытку в лимите, отправляет письмо администратору и подтверждение отправителю
	Submit(ctx context.Context, clientIP string, req *dto.ContactRequest) (*dto.ContactResponse, error)
	RateLimitInfo(clientIP string) *dto.RateLimitInfoResponse
}

type contactService struct {
	limiter    *ratelimit.FixedWindowLimiter
	mailer     email.Provider
	adminEmail string
}

func NewContactService(limiter *ratelimit.FixedWindowLimiter, mailer email.Provider, adminEmail string) ContactService {
	return &contactService{
		limiter:    limiter,
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

func (s *contactService) Submit(ctx context.Context, clientIP string, req *dto.ContactRequest) (*dto.ContactResponse, error) {
	decision := s.limiter.Allow(clientIP)
	if !decision.Allowed {
		metrics.RecordContactSubmission("rate_limited")
		logger.CtxWarn(ctx, "Contact form rate limit exceeded",
			"ip", clientIP,
			"retry_after", decision.RetryAfter.String(),
		)
		return nil, apperrors.NewRateLimitError(decision.RetryAfter)
	}

	if s.adminEmail == "" {
		metrics.RecordContactSubmission("failed")
		return nil, apperrors.ErrAdminEmailNotConfigured
	}

	data := email.TemplateData{
		"Name":    req.Name,
		"Email":   req.Email,
		"Subject": req.Subject,
		"Message": req.Message,
	}

	err := s.mailer.SendTemplate([]string{s.adminEmail}, contactAdminSubjectPrefix+req.Subject, email.TemplateContactAdmin, data)
	if err != nil {
		metrics.RecordContactSubmission("failed")
		return nil, apperrors.ErrEmailDeliveryFailed.WithError(err)
	}

	// Подтверждение отправителю не обязательно
	if err := s.mailer.SendTemplate([]string{req.Email}, contactConfirmationSubject, email.TemplateContactConfirmation, data); err != nil {
		logger.CtxWithError(ctx, "Failed to send contact confirmation", err, "to", req.Email)
	}

	metrics.RecordContactSubmission("sent")
	logger.CtxInfo(ctx, "Contact form submitted", "ip", clientIP, "remaining", decision.Remaining)

	return &dto.ContactResponse{
		Message: contactSuccessMessage,
		RateLimit: dto.RateLimitStatus{
			RemainingRequests: decision.Remaining,
			WindowReset:       decision.ResetAt.Unix(),
		},
	}, nil
}

func (s *contactService) RateLimitInfo(clientIP string) *dto.RateLimitInfoResponse {
	return &dto.RateLimitInfoResponse{
		RemainingRequests: s.limiter.Remaining(clientIP),
		MaxRequests:       s.limiter.MaxRequests(),
		WindowSeconds:     int(s.limiter.Window() / time.Second),
	}
}
