package scraper

import "ecapbot/report"

func percent(present, total int) float64 {
	return float64(present) / float64(total) * 100
}

// SkippableHours counts the classes that can be missed in a row before the
// percentage drops below the threshold.
func SkippableHours(present, total int) int {
	if total == 0 || percent(present, total) < report.Threshold {
		return 0
	}
	skippable := 0
	for t := total + 1; percent(present, t) >= report.Threshold; t++ {
		skippable++
	}
	return skippable
}

// RequiredHours counts the classes that must be attended in a row to get
// back to the threshold.
func RequiredHours(present, total int) int {
	if total == 0 || percent(present, total) >= report.Threshold {
		return 0
	}
	required := 0
	for p, t := present, total; percent(p, t) < report.Threshold; p, t = p+1, t+1 {
		required++
	}
	return required
}
