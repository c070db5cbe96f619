package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"ecapbot/models"
)

// DecodeReport reads an attendance payload leniently: missing or mistyped
// numbers become 0 and numeric strings are accepted.
func DecodeReport(body []byte) (*models.AttendanceReport, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode attendance payload: %w", err)
	}

	return &models.AttendanceReport{
		StudentID:         looseString(raw["student_id"]),
		TotalPresent:      int(looseNumber(raw["total_present"])),
		TotalClasses:      int(looseNumber(raw["total_classes"])),
		OverallPercentage: looseNumber(raw["overall_percentage"]),
		TodaysAttendance:  looseStrings(raw["todays_attendance"]),
		SubjectAttendance: looseStrings(raw["subject_attendance"]),
		SkippableHours:    nonNegative(int(looseNumber(raw["skippable_hours"]))),
		RequiredHours:     nonNegative(int(looseNumber(raw["required_hours"]))),
		Error:             looseString(raw["error"]),
	}, nil
}

func looseNumber(v json.RawMessage) float64 {
	if len(v) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return 0
}

func looseString(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

func looseStrings(v json.RawMessage) []string {
	if len(v) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
