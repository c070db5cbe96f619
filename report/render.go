package report

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"ecapbot/models"
)

// Threshold is the attendance percentage policy line.
const Threshold = 75.0

const (
	productName = "Vignan's eCAP Bot"
	footerLabel = "Smart Attendance Bot"
	divider     = "━━━━━━━━━━━━━━━━━━━━━━━"
)

// IST is the zone report timestamps are shown in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// Render formats a report as Telegram HTML. The output depends only on the
// report and at.
func Render(r *models.AttendanceReport, at time.Time) string {
	if r.Error != "" {
		return RenderError(r.Error)
	}

	above := r.OverallPercentage >= Threshold
	statusIcon, statusText := "❌", "Needs Attention ❗"
	if above {
		statusIcon, statusText = "✅", "Excellent! 🎯"
	}

	lines := []string{
		"🏫 <b>" + html.EscapeString(productName) + "</b>",
		divider,
		"👤 <b>Student ID:</b> <code>" + html.EscapeString(r.StudentID) + "</code>",
		"",
		"📊 <b>Attendance Summary:</b>",
	}

	if r.TotalClasses == 0 {
		lines = append(lines,
			"",
			"<b>No attendance data available yet.</b>",
			"<i>Class work has not started for any subject.</i>",
		)
	} else {
		lines = append(lines,
			"",
			fmt.Sprintf("• 🧮 <b>Overall (present/total):</b> %d/%d", r.TotalPresent, r.TotalClasses),
			"",
			fmt.Sprintf("• 📈 <b>Percentage:</b> %.2f%% %s", r.OverallPercentage, statusIcon),
			"",
			"📌 <b>Status:</b> "+statusText,
		)
		if above && r.SkippableHours > 0 {
			lines = append(lines, fmt.Sprintf("🛑 <b>Skippable:</b> You can miss <u><b>%d</b></u> classes.", r.SkippableHours))
		} else if !above && r.RequiredHours > 0 {
			lines = append(lines, fmt.Sprintf("📚 <b>Required:</b> Attend <b>%d</b> more classes to reach 75%%.", r.RequiredHours))
		}
	}

	lines = append(lines, "", "📅 <b>Today's Attendance:</b>", divider)
	if groups := GroupToday(r.TodaysAttendance); len(groups) > 0 {
		for _, g := range groups {
			lines = append(lines, fmt.Sprintf("• <b>%s:</b> <b>%s</b>",
				html.EscapeString(g.Subject), html.EscapeString(strings.Join(g.Codes, " "))))
		}
	} else {
		lines = append(lines, "<i>No attendance posted for today or not available.</i>")
	}

	if len(r.SubjectAttendance) > 0 {
		lines = append(lines, "", "📚 <b>Subject-wise Breakdown:</b>", divider)
		for _, raw := range r.SubjectAttendance {
			s, ok := ParseSubjectLine(raw)
			if !ok {
				continue
			}
			name := html.EscapeString(s.Name)
			if s.NotStarted() {
				lines = append(lines, fmt.Sprintf("<b>%s</b>: <i>Class work not started yet</i>", name))
			} else {
				lines = append(lines, fmt.Sprintf("<b>%s</b>: <b>%s</b> → <b>%s</b>",
					name, html.EscapeString(s.Fraction), html.EscapeString(s.Percentage)))
			}
		}
	}

	lines = append(lines,
		"",
		divider,
		"Last Updated: "+at.In(IST).Format("2/1/2006, 3:04:05 pm")+" (IST)",
		"🤖 <i>"+footerLabel+"</i>",
	)
	return strings.Join(lines, "\n")
}

// RenderError formats an {error} payload from the attendance service.
func RenderError(message string) string {
	return "❌ <b>Error</b>\n\n" + html.EscapeString(message)
}

// RenderFailure formats a failed fetch. Only the user-safe part of a
// *FetchError is shown.
func RenderFailure(err error) string {
	lines := []string{"❌ <b>Error occurred while checking attendance</b>", ""}
	var fe *FetchError
	if errors.As(err, &fe) {
		lines = append(lines, html.EscapeString(fe.UserMessage()), "")
	}
	lines = append(lines, "Please verify your credentials and try again.")
	return strings.Join(lines, "\n")
}
