package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecapbot/report"
	"ecapbot/scraper"
)

const loginPage = `<form><input name="__VIEWSTATE" value="vs"/><input name="__EVENTVALIDATION" value="ev"/></form>`

func fakePortal(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/Default.aspx", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(loginPage))
			return
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		want, _ := scraper.EncryptPassword("secret")
		if r.PostForm.Get("__VIEWSTATE") != "vs" || r.PostForm.Get("__EVENTVALIDATION") != "ev" {
			t.Errorf("hidden fields not echoed: %v", r.PostForm)
		}
		if r.PostForm.Get("txtId2") != "student" || r.PostForm.Get("hdnpwd2") != want {
			w.Write([]byte("Invalid Username or Password"))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "ASP.NET_SessionId", Value: "s1", Path: "/"})
		w.Write([]byte("welcome"))
	})
	mux.HandleFunc("/Academics/studentacadamicregister.aspx", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("ASP.NET_SessionId"); err != nil || c.Value != "s1" {
			w.Write([]byte("<html>login required</html>"))
			return
		}
		w.Write([]byte(registerPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 9, 0, 0, 0, report.IST)
}

func TestPortalFetch(t *testing.T) {
	srv := fakePortal(t)
	p := scraper.NewPortal(srv.URL, time.Second, fixedNow)

	rep, err := p.Fetch(context.Background(), "student", "secret")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if rep.Error != "" {
		t.Fatalf("Fetch() report error = %q", rep.Error)
	}
	if rep.TotalPresent != 40 || rep.TotalClasses != 60 {
		t.Errorf("totals = %d/%d", rep.TotalPresent, rep.TotalClasses)
	}
	if len(rep.TodaysAttendance) != 1 || rep.TodaysAttendance[0] != "MATHS: P A" {
		t.Errorf("TodaysAttendance = %q", rep.TodaysAttendance)
	}
}

func TestPortalFetchFailures(t *testing.T) {
	srv := fakePortal(t)

	tests := []struct {
		name      string
		baseURL   string
		password  string
		wantError string
	}{
		{name: "Wrong password", baseURL: srv.URL, password: "nope", wantError: "Invalid login"},
		{name: "Portal unreachable", baseURL: "http://127.0.0.1:1", password: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := scraper.NewPortal(tt.baseURL, time.Second, fixedNow)
			rep, err := p.Fetch(context.Background(), "student", tt.password)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if rep.Error == "" {
				t.Fatalf("Fetch() report = %+v, want error payload", rep)
			}
			if tt.wantError != "" && rep.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", rep.Error, tt.wantError)
			}
		})
	}
}
