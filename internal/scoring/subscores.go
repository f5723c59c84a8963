package scoring

import (
	"regexp"
	"strings"

	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/pkg/textx"
)

// contentReferenceWords is the resume length against which the content
// heuristic measures text volume.
const contentReferenceWords = 400

var networkURLRe = regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(linkedin\.com/in/|github\.com/)[\w\-]+`)

// Compatibility is the fraction of the expected-field checklist present in
// the extracted profile.
func Compatibility(p domain.ResumeProfile) float64 {
	checks := []bool{
		p.Name != "",
		p.Email != "",
		p.Phone != "",
		p.EducationText != "" || p.College != "",
		p.ExperienceText != "",
		len(p.Skills) > 0,
	}
	n := 0
	for _, ok := range checks {
		if ok {
			n++
		}
	}
	return float64(n) / float64(len(checks))
}

// Contact scores contact-detail validity with partial credit: email 0.5,
// phone 0.3, professional-network URL 0.2. Weights sum to 1.0 so the result
// is capped by construction.
func Contact(p domain.ResumeProfile) float64 {
	var s float64
	if p.Email != "" {
		s += 0.5
	}
	if p.Phone != "" {
		s += 0.3
	}
	if networkURLRe.MatchString(p.RawText) {
		s += 0.2
	}
	return s
}

// Content prefers the qualitative analyzer's score when one is supplied,
// otherwise averages a length ratio capped at 1.0 with a quantified-
// achievement proxy (any digit present: 1.0, else 0.5).
func Content(p domain.ResumeProfile, analyzerScore *float64) float64 {
	if analyzerScore != nil {
		return clamp01(*analyzerScore)
	}
	lengthRatio := float64(textx.WordCount(p.RawText)) / contentReferenceWords
	if lengthRatio > 1.0 {
		lengthRatio = 1.0
	}
	quantified := 0.5
	if textx.ContainsDigit(p.RawText) {
		quantified = 1.0
	}
	return (lengthRatio + quantified) / 2.0
}

// Coverage returns the fraction of keywords present in the skill set, along
// with the found and missing lists. Matching is case-insensitive exact token
// equality, not substring. An empty keyword list covers trivially: the
// denominator is max(1, len(keywords)) and found stays empty.
func Coverage(skills, keywords []string) (score float64, found, missing []string) {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		set[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, k := range keywords {
		if _, ok := set[strings.ToLower(strings.TrimSpace(k))]; ok {
			found = append(found, k)
		} else {
			missing = append(missing, k)
		}
	}
	if len(keywords) == 0 {
		return 1.0, nil, nil
	}
	return float64(len(found)) / float64(len(keywords)), found, missing
}

// Formatting is the fraction of expected section headers found anywhere in
// the raw text, case-insensitive.
func Formatting(raw string) float64 {
	low := strings.ToLower(raw)
	n := 0
	for _, h := range []string{"experience", "education", "skills", "projects"} {
		if strings.Contains(low, h) {
			n++
		}
	}
	return float64(n) / 4.0
}

// KeywordDensity is total keyword occurrences per word, times 100. It is a
// rate, not a probability: values above 1 are expected for keyword-heavy
// resumes.
func KeywordDensity(raw string, keywords []string) float64 {
	words := strings.Fields(strings.ToLower(raw))
	occurrences := 0
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		for _, w := range words {
			if strings.Trim(w, ".,;:()") == k {
				occurrences++
			}
		}
	}
	den := len(words)
	if den < 1 {
		den = 1
	}
	return float64(occurrences) / float64(den) * 100.0
}

// KeywordMatch bundles the coverage outputs for one resume.
type KeywordMatch struct {
	Found       []string
	Missing     []string
	Recommended []string
}

// Assess runs every sub-score assessor against one resume. analyzerScore may
// be nil when the qualitative collaborator is unavailable.
func Assess(p domain.ResumeProfile, job domain.JobProfile, analyzerScore *float64) (domain.SubScores, KeywordMatch) {
	reqCov, reqFound, reqMissing := Coverage(p.Skills, job.RequiredSkills)
	optCov, optFound, optMissing := Coverage(p.Skills, job.OptionalSkills)

	all := make([]string, 0, len(job.RequiredSkills)+len(job.OptionalSkills))
	all = append(all, job.RequiredSkills...)
	all = append(all, job.OptionalSkills...)

	km := KeywordMatch{
		Found:       append(append([]string{}, reqFound...), optFound...),
		Missing:     append(append([]string{}, reqMissing...), optMissing...),
		Recommended: recommendKeywords(reqMissing, optMissing),
	}
	sub := domain.SubScores{
		Compatibility:    Compatibility(p),
		Contact:          Contact(p),
		Content:          Content(p, analyzerScore),
		RequiredCoverage: reqCov,
		OptionalCoverage: optCov,
		Formatting:       Formatting(p.RawText),
		KeywordDensity:   KeywordDensity(p.RawText, all),
	}
	return sub, km
}

// recommendKeywords ranks missing required keywords ahead of missing
// optional ones, capped at ten suggestions.
func recommendKeywords(reqMissing, optMissing []string) []string {
	out := append(append([]string{}, reqMissing...), optMissing...)
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
