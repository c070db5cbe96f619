package models

// AttendanceReport is the payload returned by the attendance service. When
// Error is set the remaining fields carry no meaning.
type AttendanceReport struct {
	StudentID         string   `json:"student_id"`
	TotalPresent      int      `json:"total_present"`
	TotalClasses      int      `json:"total_classes"`
	OverallPercentage float64  `json:"overall_percentage"`
	TodaysAttendance  []string `json:"todays_attendance"`
	SubjectAttendance []string `json:"subject_attendance"`
	SkippableHours    int      `json:"skippable_hours"`
	RequiredHours     int      `json:"required_hours"`
	Error             string   `json:"error,omitempty"`
}
