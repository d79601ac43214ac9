package models

// StudentProfile is the one-to-one detail record keyed by account id. The
// roll number is deliberately not unique so one student's typo cannot block
// another student's submission.
type StudentProfile struct {
	StudentUserID    string `db:"student_user_id" json:"student_user_id"`
	UniversityRollNo string `db:"university_roll_no" json:"university_roll_no"`
	StudentName      string `db:"student_name" json:"student_name"`
	Branch           string `db:"branch" json:"branch"`
	Semester         int    `db:"semester" json:"semester"`
	Section          string `db:"section" json:"section"`
	ClassGroup       string `db:"class_group" json:"class_group"`
	BatchCounselor   string `db:"batch_counselor" json:"batch_counselor"`
}

// ProfileRequest is the profile upsert payload.
type ProfileRequest struct {
	UniversityRollNo string `json:"university_roll_no" binding:"required" validate:"required"`
	StudentName      string `json:"student_name" binding:"required" validate:"required"`
	Branch           string `json:"branch" binding:"required" validate:"required"`
	Semester         int    `json:"semester" binding:"required" validate:"required,min=1,max=8"`
	Section          string `json:"section" binding:"required" validate:"required"`
	ClassGroup       string `json:"class_group" binding:"required" validate:"required"`
	BatchCounselor   string `json:"batch_counselor" binding:"required" validate:"required"`
}
