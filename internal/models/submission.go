package models

// SubmissionStatus is the review state of a submission row.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// ValidStatus reports whether s is one of the three allowed states.
func ValidStatus(s SubmissionStatus) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// SubmissionRow is one stored submission; all field values are text.
type SubmissionRow map[string]string

// FormSubmissions pairs a form with its stored rows for the review surface.
type FormSubmissions struct {
	Form  string          `json:"form"`
	Title string          `json:"title"`
	Rows  []SubmissionRow `json:"rows"`
}

// StatusUpdateRequest changes the review state of one submission.
type StatusUpdateRequest struct {
	Status SubmissionStatus `json:"status" binding:"required"`
}

// BloodDonationEntry is the legacy flat-ledger payload, bypassing the
// workflow entirely.
type BloodDonationEntry struct {
	Event       string `json:"event" binding:"required"`
	FromDate    string `json:"from_date" binding:"required"`
	ToDate      string `json:"to_date" binding:"required"`
	Organizer   string `json:"organizer" binding:"required"`
	Venue       string `json:"venue" binding:"required"`
	Certificate string `json:"certificate" binding:"required"`
}

// ExportJob tracks an asynchronous sheet export.
type ExportJob struct {
	ID    string       `json:"id"`
	Files []ExportFile `json:"files,omitempty"`
}

// ExportFile is one rendered sheet with its signed download token.
type ExportFile struct {
	Name  string `json:"name"`
	Token string `json:"token"`
	URL   string `json:"url"`
}
