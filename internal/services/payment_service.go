package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"gorm.io/gorm"
)

// PaymentService lets administrators record payments and remove registrations.
type PaymentService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(registrationRepo repository.RegistrationRepository, eventRepo repository.EventRepository) *PaymentService {
	return &PaymentService{registrationRepo: registrationRepo, eventRepo: eventRepo}
}

// StatusCounts is the payment breakdown of one event.
type StatusCounts struct {
	EventID  uint64
	Paid     int64
	Unpaid   int64
	Refunded int64
}

// UpdatePaymentStatus moves a registration to status. Any status may follow
// any other; the stored row is returned after the write.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, actor *Principal, registrationID string, status models.PaymentStatus) (*models.Registration, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	status = models.PaymentStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, invalidField("payment_status", "must be one of PAID, UNPAID, REFUNDED")
	}

	registrationID = strings.TrimSpace(registrationID)
	if err := s.registrationRepo.UpdatePaymentStatus(ctx, registrationID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	reg, err := s.registrationRepo.FindByRegistrationID(ctx, registrationID, "User", "Event", "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to reload registration: %w", err)
	}
	return reg, nil
}

// DeleteRegistration removes a registration with its team members and
// releases its seat.
func (s *PaymentService) DeleteRegistration(ctx context.Context, actor *Principal, registrationID string) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	if err := s.registrationRepo.Delete(ctx, strings.TrimSpace(registrationID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return nil
}

// StatusCounts returns how many registrations of the event are paid, unpaid and refunded.
func (s *PaymentService) StatusCounts(ctx context.Context, actor *Principal, eventID uint64) (*StatusCounts, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	counts, err := s.registrationRepo.CountByStatus(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}

	return &StatusCounts{
		EventID:  eventID,
		Paid:     counts[models.PaymentPaid],
		Unpaid:   counts[models.PaymentUnpaid],
		Refunded: counts[models.PaymentRefunded],
	}, nil
}
