// Package scraper logs into the college portal and turns the academic
// register into an attendance report.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"ecapbot/models"
	"ecapbot/report"
)

const (
	DefaultBaseURL = "https://webprosindia.com/vignanit"
	loginPath      = "/Default.aspx"
	registerPath   = "/Academics/studentacadamicregister.aspx?scrid=2"
	maxPage        = 4 << 20
)

// Portal fetches reports from the portal. It satisfies report.Fetcher; portal
// failures come back as reports with Error set, never as Go errors.
type Portal struct {
	baseURL string
	timeout time.Duration
	now     func() time.Time
}

func NewPortal(baseURL string, timeout time.Duration, now func() time.Time) *Portal {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = report.DefaultTimeout
	}
	if now == nil {
		now = time.Now
	}
	return &Portal{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout, now: now}
}

func failed(format string, args ...any) *models.AttendanceReport {
	return &models.AttendanceReport{Error: fmt.Sprintf(format, args...)}
}

// Fetch logs in with a fresh cookie jar and reads the register.
func (p *Portal) Fetch(ctx context.Context, username, password string) (*models.AttendanceReport, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: p.timeout, Jar: jar}
	loginURL := p.baseURL + loginPath

	page, err := p.get(ctx, client, loginURL)
	if err != nil {
		log.Printf("[SCRAPER] login page for %s: %v", username, err)
		return failed("failed to get login page: %v", err), nil
	}
	hidden, err := ParseHiddenFields(bytes.NewReader(page))
	if err != nil {
		return failed("%v", err), nil
	}

	encrypted, err := EncryptPassword(password)
	if err != nil {
		return failed("%v", err), nil
	}

	form := url.Values{}
	form.Set("__VIEWSTATE", hidden.ViewState)
	form.Set("__EVENTVALIDATION", hidden.EventValidation)
	form.Set("txtId2", username)
	form.Set("hdnpwd2", encrypted)
	form.Set("imgBtn2.x", "25")
	form.Set("imgBtn2.y", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return failed("%v", err), nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	body, err := p.do(client, req)
	if err != nil {
		log.Printf("[SCRAPER] login post for %s: %v", username, err)
		return failed("%v", err), nil
	}
	if bytes.Contains(body, []byte("Invalid Username")) {
		log.Printf("[SCRAPER] login rejected for %s", username)
		return failed("Invalid login"), nil
	}

	register, err := p.get(ctx, client, p.baseURL+registerPath)
	if err != nil {
		log.Printf("[SCRAPER] register page for %s: %v", username, err)
		return failed("%v", err), nil
	}
	rep, err := ParseRegister(bytes.NewReader(register), username, DayKey(p.now().In(report.IST)))
	if err != nil {
		return failed("%v", err), nil
	}
	log.Printf("[SCRAPER] report for %s: %d/%d", username, rep.TotalPresent, rep.TotalClasses)
	return rep, nil
}

func (p *Portal) get(ctx context.Context, client *http.Client, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	return p.do(client, req)
}

func (p *Portal) do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxPage))
}
