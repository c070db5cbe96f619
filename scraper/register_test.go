package scraper_test

import (
	"strings"
	"testing"
	"time"

	"ecapbot/scraper"
)

const registerPage = `<html><body><table>
<tr class="reportHeading2WithBackground">
  <td>Sl.No</td><td>Subject</td><td>17/10</td><td>18/10</td><td>Attended</td><td>%</td>
</tr>
<tr title="MATHS">
  <td class="cellBorder">1</td><td class="cellBorder">MATHS</td>
  <td class="cellBorder">P</td><td class="cellBorder">P A -</td>
  <td class="cellBorder">30/40</td><td class="cellBorder">75.00</td>
</tr>
<tr title="PHYSICS">
  <td class="cellBorder">2</td><td class="cellBorder">PHYSICS</td>
  <td class="cellBorder">A</td><td class="cellBorder">-</td>
  <td class="cellBorder">10/20</td><td class="cellBorder">50.00</td>
</tr>
<tr title="LAB">
  <td class="cellBorder">3</td><td class="cellBorder">LAB</td>
  <td class="cellBorder"></td><td class="cellBorder"></td>
  <td class="cellBorder">0/0</td><td class="cellBorder">0.00</td>
</tr>
<tr title="broken"><td class="cellBorder">x</td></tr>
</table></body></html>`

func TestParseRegister(t *testing.T) {
	rep, err := scraper.ParseRegister(strings.NewReader(registerPage), "21L31A0501", "18/10")
	if err != nil {
		t.Fatalf("ParseRegister() error = %v", err)
	}

	if rep.StudentID != "21L31A0501" {
		t.Errorf("StudentID = %q", rep.StudentID)
	}
	if rep.TotalPresent != 40 || rep.TotalClasses != 60 {
		t.Errorf("totals = %d/%d, want 40/60", rep.TotalPresent, rep.TotalClasses)
	}
	if rep.OverallPercentage < 66.66 || rep.OverallPercentage > 66.67 {
		t.Errorf("OverallPercentage = %v", rep.OverallPercentage)
	}
	if rep.SkippableHours != 0 || rep.RequiredHours != 20 {
		t.Errorf("hours = skip %d / need %d, want 0 / 20", rep.SkippableHours, rep.RequiredHours)
	}

	wantToday := []string{"MATHS: P A"}
	if strings.Join(rep.TodaysAttendance, "|") != strings.Join(wantToday, "|") {
		t.Errorf("TodaysAttendance = %q, want %q", rep.TodaysAttendance, wantToday)
	}

	if len(rep.SubjectAttendance) != 3 {
		t.Fatalf("SubjectAttendance = %q", rep.SubjectAttendance)
	}
	if want := "MATHS                  30/40 75.00"; rep.SubjectAttendance[0] != want {
		t.Errorf("SubjectAttendance[0] = %q, want %q", rep.SubjectAttendance[0], want)
	}
}

func TestParseRegisterNoTodayColumn(t *testing.T) {
	rep, err := scraper.ParseRegister(strings.NewReader(registerPage), "x", "01/01")
	if err != nil {
		t.Fatalf("ParseRegister() error = %v", err)
	}
	if len(rep.TodaysAttendance) != 0 {
		t.Errorf("TodaysAttendance = %q, want empty", rep.TodaysAttendance)
	}
	if rep.TotalClasses != 60 {
		t.Errorf("TotalClasses = %d", rep.TotalClasses)
	}
}

func TestParseRegisterPartialFraction(t *testing.T) {
	page := `<table>
<tr title="MATHS"><td class="cellBorder">1</td><td class="cellBorder">MATHS</td><td class="cellBorder">5/</td><td class="cellBorder">-</td></tr>
<tr title="PHYSICS"><td class="cellBorder">2</td><td class="cellBorder">PHYSICS</td><td class="cellBorder">3/4</td><td class="cellBorder">75.00</td></tr>
</table>`
	rep, err := scraper.ParseRegister(strings.NewReader(page), "x", "01/01")
	if err != nil {
		t.Fatalf("ParseRegister() error = %v", err)
	}
	if rep.TotalPresent != 8 || rep.TotalClasses != 4 {
		t.Errorf("totals = %d/%d, want 8/4", rep.TotalPresent, rep.TotalClasses)
	}
}

func TestParseHiddenFields(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		wantErr bool
	}{
		{
			name: "Both fields present",
			page: `<form><input name="__VIEWSTATE" value="vs"/><input name="__EVENTVALIDATION" value="ev"/></form>`,
		},
		{
			name:    "Missing event validation",
			page:    `<form><input name="__VIEWSTATE" value="vs"/></form>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scraper.ParseHiddenFields(strings.NewReader(tt.page))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHiddenFields() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (got.ViewState != "vs" || got.EventValidation != "ev") {
				t.Errorf("ParseHiddenFields() = %+v", got)
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	if got := scraper.DayKey(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)); got != "07/03" {
		t.Errorf("DayKey() = %q, want 07/03", got)
	}
}
