package report

import (
	"strconv"
	"strings"
	"unicode"
)

// SubjectToday is one subject's status codes for the current day.
type SubjectToday struct {
	Subject string
	Codes   []string
}

// GroupToday groups "Subject: Codes" entries by subject in order of first
// appearance. Codes are split into single characters and whitespace is
// dropped, so "Science: PP" yields P, P.
func GroupToday(entries []string) []SubjectToday {
	var groups []SubjectToday
	index := make(map[string]int)

	for _, entry := range entries {
		subject, status := entry, ""
		if i := strings.Index(entry, ":"); i >= 0 {
			subject, status = entry[:i], entry[i+1:]
			if j := strings.Index(status, ":"); j >= 0 {
				status = status[:j]
			}
		}
		subject = strings.TrimSpace(subject)

		i, ok := index[subject]
		if !ok {
			i = len(groups)
			index[subject] = i
			groups = append(groups, SubjectToday{Subject: subject})
		}
		for _, r := range status {
			if unicode.IsSpace(r) {
				continue
			}
			groups[i].Codes = append(groups[i].Codes, string(r))
		}
	}
	return groups
}

// SubjectLine is one parsed row of the subject-wise breakdown.
type SubjectLine struct {
	Name       string
	Fraction   string
	Percentage string
	Present    int
	Total      int
	// HasTotal reports whether Fraction parsed as present/total.
	HasTotal bool
}

// NotStarted reports a subject with no classes held yet.
func (s SubjectLine) NotStarted() bool {
	return s.HasTotal && s.Total == 0
}

// ParseSubjectLine reads "<name tokens> <present>/<total> <percentage>".
// The last token is the percentage, the one before it the fraction, and the
// rest, joined by single spaces with dots removed, the subject name. Lines
// with fewer than two tokens are rejected.
func ParseSubjectLine(line string) (SubjectLine, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return SubjectLine{}, false
	}

	n := len(fields)
	s := SubjectLine{
		Name:       strings.ReplaceAll(strings.Join(fields[:n-2], " "), ".", ""),
		Fraction:   fields[n-2],
		Percentage: fields[n-1],
	}

	if present, total, ok := strings.Cut(s.Fraction, "/"); ok {
		p, errP := strconv.Atoi(present)
		t, errT := strconv.Atoi(total)
		if errT == nil {
			s.Total = t
			s.HasTotal = true
		}
		if errP == nil {
			s.Present = p
		}
	}
	return s, true
}
