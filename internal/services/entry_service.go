package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tempo/internal/amqp"
	"tempo/internal/core"
	"tempo/internal/storage"
)

// EntryService commits time entries, snapshotting the owner's hourly rate at
// commit time so later rate changes never move historical cost. After the
// local write it publishes a lightweight entry-committed message for the
// rollup worker; publish failures never fail the request.
type EntryService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewEntryService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *EntryService {
	return &EntryService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// Create commits a time entry. The date is normalized to its UTC calendar
// day and the hourly rate is read from the user row at this moment; the
// entry is immutable input to all later cost math.
func (s *EntryService) Create(ctx context.Context, userID, projectID int64, date time.Time, durationSeconds int64, description string) (*core.TimeEntry, error) {
	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user rate: %w", err)
	}
	if _, err := s.storage.GetProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("resolve project: %w", err)
	}

	entry := core.TimeEntry{
		UserID:          userID,
		ProjectID:       projectID,
		Date:            core.DateOnly(date),
		DurationSeconds: durationSeconds,
		HourlyRate:      user.HourlyRate,
		Description:     description,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	entry.ID, err = s.storage.CreateTimeEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("save time entry: %w", err)
	}

	// Publish async rollup message (non-blocking, version 1 for new entry)
	if err := s.publishEntryMessage(ctx, entry.ID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish entry message",
			"id", entry.ID, "error", err)
		// Don't fail the request - entry is saved locally
	}

	return &entry, nil
}

// ListMonth returns the caller's entries for one calendar month.
func (s *EntryService) ListMonth(ctx context.Context, userID int64, year, month int) ([]core.TimeEntry, error) {
	return s.storage.ListEntriesByUserMonth(ctx, userID, year, month)
}

func (s *EntryService) publishEntryMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping entry message")
		return nil
	}
	return s.amqpClient.PublishEntryCommitted(ctx, id, version)
}

// Close closes both storage and AMQP connections.
func (s *EntryService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close entry service: %v", errs)
	}

	return nil
}
