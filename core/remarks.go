package core

import "context"

// Fallback texts returned when the remarks collaborator is unavailable or
// fails. Certificate issuance never depends on a successful generation.
const (
	FallbackStudentRemarks = "স্বয়ংক্রিয় মন্তব্য জেনারেট করা যায়নি।"
	FallbackSchoolInsight  = "স্কুলের বিশ্লেষণ তৈরি করা সম্ভব হয়নি।"
)

type (
	StudentRemarksInput struct {
		Name       string  `json:"name" validate:"required"`
		GPA        float64 `json:"gpa"`
		Attendance float64 `json:"attendance"`
		Traits     string  `json:"traits"`
	}

	SchoolInsightInput struct {
		SchoolName   string  `json:"school_name" validate:"required"`
		StudentCount int     `json:"student_count"`
		AverageGPA   float64 `json:"average_gpa"`
	}

	// RemarksService generates free-text certificate remarks and school
	// performance insights. Implementations return a fallback text instead
	// of an error; the portal treats the output as optional enrichment.
	RemarksService interface {
		StudentRemarks(ctx context.Context, in StudentRemarksInput) string
		SchoolInsight(ctx context.Context, in SchoolInsightInput) string
	}
)
