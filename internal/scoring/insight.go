package scoring

import (
	"fmt"
	"strings"

	"github.com/fairyhunter13/ats-screener/internal/domain"
)

// Insights carries the qualitative output for one resume.
type Insights struct {
	Strengths           []string
	AreasForImprovement []string
	Summary             string
	Recommendations     []domain.Recommendation
}

// defaultRecommendation is emitted whenever nothing else applies, so callers
// never receive an empty recommendations list.
var defaultRecommendation = domain.Recommendation{
	ID:          "rec-quantify",
	Title:       "Add measurable achievements",
	Description: "Back up responsibilities with concrete numbers: revenue, latency, team size, user counts.",
	Category:    "content",
	Priority:    "medium",
	Impact:      "Recruiters weight quantified results far above duty lists.",
}

// BuildInsights converts sub-score weaknesses into ranked suggestions,
// preferring the qualitative analyzer's output field by field when present.
func BuildInsights(sub domain.SubScores, km KeywordMatch, analysis *domain.Analysis) Insights {
	ins := Insights{}
	if analysis != nil {
		ins.Strengths = analysis.Strengths
		ins.AreasForImprovement = analysis.AreasForImprovement
		ins.Summary = analysis.Summary
		ins.Recommendations = analysis.Recommendations
	}
	if len(ins.Strengths) == 0 {
		ins.Strengths = heuristicStrengths(sub)
	}
	if len(ins.AreasForImprovement) == 0 {
		ins.AreasForImprovement = heuristicWeaknesses(sub)
	}
	if ins.Summary == "" {
		ins.Summary = heuristicSummary(sub, km)
	}
	if len(ins.Recommendations) == 0 {
		ins.Recommendations = heuristicRecommendations(sub, km)
	}
	if len(ins.Recommendations) == 0 {
		ins.Recommendations = []domain.Recommendation{defaultRecommendation}
	}
	return ins
}

func heuristicStrengths(sub domain.SubScores) []string {
	var out []string
	if sub.RequiredCoverage >= 0.8 {
		out = append(out, "Covers nearly all required skills")
	}
	if sub.Contact >= 0.8 {
		out = append(out, "Complete, well-formed contact details")
	}
	if sub.Formatting >= 0.8 {
		out = append(out, "Clear section structure recruiters can scan")
	}
	if sub.Content >= 0.8 {
		out = append(out, "Substantial, quantified content")
	}
	return out
}

func heuristicWeaknesses(sub domain.SubScores) []string {
	var out []string
	if sub.RequiredCoverage < 0.5 {
		out = append(out, "Most required skills are not evidenced")
	}
	if sub.Contact < 0.5 {
		out = append(out, "Contact details are incomplete")
	}
	if sub.Formatting < 0.5 {
		out = append(out, "Standard resume sections are missing")
	}
	if sub.Content < 0.5 {
		out = append(out, "Content is thin or lacks measurable results")
	}
	return out
}

func heuristicSummary(sub domain.SubScores, km KeywordMatch) string {
	total := len(km.Found) + len(km.Missing)
	if total == 0 {
		return "No target keywords were specified; scored on structure and content signals only."
	}
	return fmt.Sprintf("Matched %d of %d target keywords (%.0f%% required coverage); missing: %s.",
		len(km.Found), total, sub.RequiredCoverage*100, joinOrNone(km.Missing))
}

// heuristicRecommendations ranks suggestions by sub-score weakness: keyword
// gaps first, then content, formatting, and contact issues.
func heuristicRecommendations(sub domain.SubScores, km KeywordMatch) []domain.Recommendation {
	var recs []domain.Recommendation
	if len(km.Missing) > 0 {
		recs = append(recs, domain.Recommendation{
			ID:          "rec-keywords",
			Title:       "Add missing keywords",
			Description: fmt.Sprintf("Work these into your skills and experience sections where truthful: %s.", joinOrNone(km.Recommended)),
			Category:    "keywords",
			Priority:    "high",
			Impact:      "Keyword coverage is the strongest single ATS ranking signal.",
		})
	}
	if sub.Content < 0.7 {
		recs = append(recs, defaultRecommendation)
	}
	if sub.Formatting < 0.75 {
		recs = append(recs, domain.Recommendation{
			ID:          "rec-sections",
			Title:       "Use standard section headers",
			Description: "Label Experience, Education, Skills and Projects explicitly so parsers can find them.",
			Category:    "formatting",
			Priority:    "medium",
			Impact:      "Unlabeled sections are frequently dropped by resume parsers.",
		})
	}
	if sub.Contact < 1.0 {
		recs = append(recs, domain.Recommendation{
			ID:          "rec-contact",
			Title:       "Complete contact details",
			Description: "Include a valid email, a phone number and a LinkedIn or GitHub profile URL.",
			Category:    "contact",
			Priority:    "low",
			Impact:      "Missing contact details stall otherwise-successful screens.",
		})
	}
	return recs
}

func joinOrNone(ss []string) string {
	if len(ss) == 0 {
		return "none"
	}
	return strings.Join(ss, ", ")
}
