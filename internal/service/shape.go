package service

import "github.com/salescribe/salescribe-server/internal/model"

// summaryFallback is returned whenever no summary survives the projection.
const summaryFallback = "Summary not available."

// SalespersonView exposes the complete analysis to the meeting owner.
type SalespersonView struct {
	Transcript          string             `json:"transcript"`
	GeneralSummary      string             `json:"general_summary"`
	SalespersonAnalysis model.RoleAnalysis `json:"salesperson_analysis"`
	ClientAnalysis      model.RoleAnalysis `json:"client_analysis"`
}

// RecorderView exposes the transcript and a summary, nothing actionable.
type RecorderView struct {
	Summary    string `json:"summary"`
	Transcript string `json:"transcript"`
}

// ClientView exposes only client-relevant material. It never carries the
// transcript or the salesperson analysis.
type ClientView struct {
	Summary     string   `json:"summary"`
	KeyPoints   []string `json:"key_points"`
	ActionItems []string `json:"action_items"`
	Questions   []string `json:"questions"`
}

// SummaryView is the projection for unrecognized roles.
type SummaryView struct {
	Summary string `json:"summary"`
}

// Shape projects the full analysis into the view appropriate for the role.
// It is pure and total: unknown roles fall through to a summary-only view
// and never fail. The stored analysis is not touched; shaping happens on
// every read.
func Shape(data model.AnalysisData, role model.Role) any {
	switch role {
	case model.RoleSalesperson, model.RoleAdmin:
		return SalespersonView{
			Transcript:          data.Transcript,
			GeneralSummary:      data.GeneralSummary,
			SalespersonAnalysis: data.SalespersonAnalysis,
			ClientAnalysis:      data.ClientAnalysis,
		}
	case model.RoleRecorder:
		return RecorderView{
			Summary:    firstNonEmpty(data.GeneralSummary, data.SalespersonAnalysis.Summary, summaryFallback),
			Transcript: data.Transcript,
		}
	case model.RoleClient:
		return ClientView{
			Summary:     firstNonEmpty(data.ClientAnalysis.Summary, data.GeneralSummary, summaryFallback),
			KeyPoints:   orEmpty(data.ClientAnalysis.KeyPoints),
			ActionItems: orEmpty(data.ClientAnalysis.ActionItems),
			Questions:   orEmpty(data.ClientAnalysis.Questions),
		}
	default:
		return SummaryView{
			Summary: firstNonEmpty(data.GeneralSummary, summaryFallback),
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
