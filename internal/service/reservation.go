package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/repository"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
)

// ReservationService implements the business logic for guest reservations.
type ReservationService struct {
	reservationRepo repository.ReservationRepository
	logger          *slog.Logger
}

// NewReservationService creates a new reservation service.
func NewReservationService(reservationRepo repository.ReservationRepository, logger *slog.Logger) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// ListForGuest returns the guest's completed stays, most recent first.
func (s *ReservationService) ListForGuest(ctx context.Context, guestID int64, limit int) ([]domain.Reservation, error) {
	if guestID <= 0 {
		return nil, apperrors.InvalidInput("guest id must be positive")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	reservations, err := s.reservationRepo.ListByGuest(ctx, guestID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reservations for guest: %w", err)
	}

	s.logger.DebugContext(ctx, "reservations listed",
		slog.Int64("guest_id", guestID),
		slog.Int("result_count", len(reservations)),
	)

	return reservations, nil
}
