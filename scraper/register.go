package scraper

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ecapbot/models"
)

var errMissingHidden = errors.New("missing viewstate or eventvalidation")

// HiddenFields holds the ASP.NET form state the login post must echo back.
type HiddenFields struct {
	ViewState       string
	EventValidation string
}

// ParseHiddenFields extracts the login form state from the login page.
func ParseHiddenFields(r io.Reader) (HiddenFields, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return HiddenFields{}, err
	}
	viewState, ok1 := doc.Find("input[name='__VIEWSTATE']").Attr("value")
	eventValidation, ok2 := doc.Find("input[name='__EVENTVALIDATION']").Attr("value")
	if !ok1 || !ok2 {
		return HiddenFields{}, errMissingHidden
	}
	return HiddenFields{ViewState: viewState, EventValidation: eventValidation}, nil
}

// DayKey formats t the way the register headers label a day column.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%02d/%02d", t.Day(), int(t.Month()))
}

// ParseRegister builds a report from the academic register page. today is the
// DayKey of the column to read today's statuses from.
func ParseRegister(r io.Reader, studentID, today string) (*models.AttendanceReport, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	todayIndex := -1
	doc.Find("tr.reportHeading2WithBackground").First().Find("td").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(s.Text()), today) {
			todayIndex = i
			return false
		}
		return true
	})

	rep := &models.AttendanceReport{
		StudentID:         studentID,
		TodaysAttendance:  []string{},
		SubjectAttendance: []string{},
	}

	doc.Find("tr[title]").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td.cellBorder")
		n := cells.Length()
		if n < 2 {
			return
		}
		subject := strings.TrimSpace(cells.Eq(1).Text())
		attendance := strings.TrimSpace(cells.Eq(n - 2).Text())
		pct := strings.TrimSpace(cells.Eq(n - 1).Text())

		var present, total int
		if strings.Contains(attendance, "/") {
			// A partial fraction keeps whatever parsed, so "5/" counts 5/0.
			fmt.Sscanf(attendance, "%d/%d", &present, &total)
		}
		rep.TotalPresent += present
		rep.TotalClasses += total

		if todayIndex != -1 && todayIndex < n {
			var statuses []string
			for _, tok := range strings.Fields(cells.Eq(todayIndex).Text()) {
				if tok == "P" || tok == "A" {
					statuses = append(statuses, tok)
				}
			}
			if len(statuses) > 0 {
				rep.TodaysAttendance = append(rep.TodaysAttendance,
					fmt.Sprintf("%s: %s", subject, strings.Join(statuses, " ")))
			}
		}
		rep.SubjectAttendance = append(rep.SubjectAttendance,
			fmt.Sprintf("%-20s %7s %s", subject, attendance, pct))
	})

	if rep.TotalClasses > 0 {
		rep.OverallPercentage = percent(rep.TotalPresent, rep.TotalClasses)
	}
	rep.SkippableHours = SkippableHours(rep.TotalPresent, rep.TotalClasses)
	rep.RequiredHours = RequiredHours(rep.TotalPresent, rep.TotalClasses)
	return rep, nil
}
