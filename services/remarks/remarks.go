package remarkssvc

import (
	"context"
	"fmt"

	"github.com/prathomik/sheba/core"
)

// templateService composes certificate remarks and school insights from
// fixed Bengali templates. It stands in for a generative collaborator; the
// portal treats either as optional enrichment, so no implementation may
// surface an error — unusable input degrades to the core fallback texts.
type templateService struct{}

var _ core.RemarksService = (*templateService)(nil)

func NewTemplateService() core.RemarksService {
	return &templateService{}
}

func (svc templateService) StudentRemarks(_ context.Context, in core.StudentRemarksInput) string {
	if in.Name == "" {
		return core.FallbackStudentRemarks
	}
	traits := in.Traits
	if traits == "" {
		traits = "মেধাবী, নিয়মিত"
	}
	return fmt.Sprintf(
		"%s একজন %s শিক্ষার্থী। জিপিএ %.2f এবং %.0f%% উপস্থিতি তার অধ্যবসায়ের পরিচয় বহন করে। "+
			"তার উত্তরোত্তর সাফল্য কামনা করছি।",
		in.Name, traits, in.GPA, in.Attendance,
	)
}

func (svc templateService) SchoolInsight(_ context.Context, in core.SchoolInsightInput) string {
	if in.SchoolName == "" {
		return core.FallbackSchoolInsight
	}
	return fmt.Sprintf(
		"%s-এ বর্তমানে %d জন শিক্ষার্থী অধ্যয়নরত এবং গড় জিপিএ %.2f। "+
			"ফলাফলের এই ধারা ধরে রাখতে নিয়মিত মূল্যায়ন অব্যাহত রাখা বাঞ্ছনীয়।",
		in.SchoolName, in.StudentCount, in.AverageGPA,
	)
}
