package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skit-dev/sodeca-api/internal/forms"
	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/export"
)

var ledgerHeader = []string{"recorded_at", "roll_no", "student_name", "event", "from_date", "to_date", "organizer", "venue", "certificate"}

type ledgerStore interface {
	Append(filename string, data []byte) error
	Exists(filename string) bool
}

// BloodDonationService records donation entries in an append-only CSV ledger,
// outside the form workflow. The header row is written once when the file is
// first created.
type BloodDonationService struct {
	ledger   ledgerStore
	profiles profileRepository
	csv      *export.CSVExporter
	file     string
	logger   *zap.Logger
}

// NewBloodDonationService constructs a BloodDonationService instance.
func NewBloodDonationService(ledger ledgerStore, profiles profileRepository, file string, logger *zap.Logger) *BloodDonationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if file == "" {
		file = "blood_donation.csv"
	}
	return &BloodDonationService{
		ledger:   ledger,
		profiles: profiles,
		csv:      export.NewCSVExporter(),
		file:     file,
		logger:   logger,
	}
}

// Record validates the entry dates and appends one ledger row attributed to
// the student's profile identity.
func (s *BloodDonationService) Record(ctx context.Context, userID string, entry models.BloodDonationEntry) error {
	from, err := time.Parse(forms.DateLayout, entry.FromDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "from_date must be YYYY-MM-DD")
	}
	to, err := time.Parse(forms.DateLayout, entry.ToDate)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "to_date must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return appErrors.Clone(appErrors.ErrValidation, "to_date must not be before from_date")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return appErrors.Clone(appErrors.ErrProfileRequired, "")
	}

	records := [][]string{}
	if !s.ledger.Exists(s.file) {
		records = append(records, ledgerHeader)
	}
	records = append(records, []string{
		time.Now().UTC().Format(time.RFC3339),
		profile.UniversityRollNo,
		profile.StudentName,
		entry.Event,
		entry.FromDate,
		entry.ToDate,
		entry.Organizer,
		entry.Venue,
		entry.Certificate,
	})

	data, err := s.csv.RenderRecords(records)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode ledger entry")
	}
	if err := s.ledger.Append(s.file, data); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write ledger entry")
	}

	s.logger.Info("blood donation recorded", zap.String("roll_no", profile.UniversityRollNo), zap.String("event", entry.Event))
	return nil
}

// Header exposes the ledger column order.
func (s *BloodDonationService) Header() []string {
	return append([]string(nil), ledgerHeader...)
}
