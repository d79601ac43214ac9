package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
)

type mockLedgerStore struct {
	files map[string][]byte
}

func (m *mockLedgerStore) Append(filename string, data []byte) error {
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[filename] = append(m.files[filename], data...)
	return nil
}

func (m *mockLedgerStore) Exists(filename string) bool {
	_, ok := m.files[filename]
	return ok
}

func donationEntry() models.BloodDonationEntry {
	return models.BloodDonationEntry{
		Event:       "Blood Donation Camp 2024",
		FromDate:    "2024-06-10",
		ToDate:      "2024-06-11",
		Organizer:   "SKIT",
		Venue:       "Civil block, SKIT, Jaipur",
		Certificate: "donor_card_123",
	}
}

func newDonationFixture() (*BloodDonationService, *mockLedgerStore) {
	ledger := &mockLedgerStore{}
	profiles := &mockProfileRepo{profiles: map[string]*models.StudentProfile{"u1": testProfile("u1")}}
	return NewBloodDonationService(ledger, profiles, "blood_donation.csv", nil), ledger
}

func TestRecordWritesHeaderOnce(t *testing.T) {
	svc, ledger := newDonationFixture()

	require.NoError(t, svc.Record(context.Background(), "u1", donationEntry()))
	require.NoError(t, svc.Record(context.Background(), "u1", donationEntry()))

	content := string(ledger.files["blood_donation.csv"])
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, 1, strings.Count(content, "recorded_at,roll_no"))
	assert.Contains(t, lines[1], "21ESKIT001")
	assert.Contains(t, lines[1], "Blood Donation Camp 2024")
}

func TestRecordValidatesDates(t *testing.T) {
	svc, ledger := newDonationFixture()

	entry := donationEntry()
	entry.FromDate = "10-06-2024"
	err := svc.Record(context.Background(), "u1", entry)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	entry = donationEntry()
	entry.ToDate = "2024-06-09"
	err = svc.Record(context.Background(), "u1", entry)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "to_date")

	assert.Empty(t, ledger.files)
}

func TestRecordRequiresProfile(t *testing.T) {
	svc := NewBloodDonationService(&mockLedgerStore{}, &mockProfileRepo{}, "blood_donation.csv", nil)

	err := svc.Record(context.Background(), "ghost", donationEntry())
	assert.Equal(t, appErrors.ErrProfileRequired.Code, appErrors.FromError(err).Code)
}
