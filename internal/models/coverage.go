package models

import "time"

// CoverageVerdict is the derived staffing status of one area on one date.
// Covered is true exactly when Warnings is empty.
type CoverageVerdict struct {
	Covered  bool     `json:"covered"`
	Warnings []string `json:"warnings"`
}

// CellCoverage pairs a schedule grid cell with its verdict, used by batch
// coverage and draft previews.
type CellCoverage struct {
	AreaID  string          `json:"area_id"`
	Date    time.Time       `json:"date"`
	Verdict CoverageVerdict `json:"verdict"`
}
