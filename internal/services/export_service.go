package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/fest-registration-api/internal/export"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"github.com/yukikurage/fest-registration-api/internal/storage"
	"github.com/yukikurage/fest-registration-api/internal/utils"
)

const exportPrefix = "exports"

// ExportService renders registrations as spreadsheets.
type ExportService struct {
	registrationRepo repository.RegistrationRepository
	store            storage.ObjectStore
}

// NewExportService creates a new ExportService. store may be nil; Publish
// then fails with ErrStorageUnavailable.
func NewExportService(registrationRepo repository.RegistrationRepository, store storage.ObjectStore) *ExportService {
	return &ExportService{registrationRepo: registrationRepo, store: store}
}

// ExportFilter narrows the exported registrations.
type ExportFilter struct {
	PaymentStatus string
	EventID       *uint64
}

// Registrations returns an xlsx workbook with one sheet per event.
func (s *ExportService) Registrations(ctx context.Context, actor *Principal, filter ExportFilter) ([]byte, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	repoFilter := repository.ExportFilter{EventID: filter.EventID}
	if filter.PaymentStatus != "" {
		status := models.PaymentStatus(strings.ToUpper(filter.PaymentStatus))
		if !status.Valid() {
			return nil, invalidField("payment_status", "must be one of PAID, UNPAID, REFUNDED")
		}
		repoFilter.PaymentStatus = &status
	}

	regs, err := s.registrationRepo.ListForExport(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	f, err := export.Workbook(regs)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportLink is a time-limited download location for a stored workbook.
type ExportLink struct {
	Key       string
	URL       string
	ExpiresAt time.Time
}

// Publish stores the workbook in object storage and returns a presigned link.
func (s *ExportService) Publish(ctx context.Context, actor *Principal, filter ExportFilter, ttl time.Duration) (*ExportLink, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	data, err := s.Registrations(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	key := utils.GenerateObjectKey(exportPrefix, "xlsx")
	if _, err := s.store.Put(ctx, key, export.ContentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store export: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to presign export: %w", err)
	}
	return &ExportLink{Key: key, URL: url, ExpiresAt: time.Now().Add(ttl)}, nil
}
