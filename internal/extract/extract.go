// Package extract turns raw JD and resume text into structured profiles.
//
// All parsing is best-effort: malformed input never produces an error, only
// empty fields that downstream scoring treats as zero signal.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fairyhunter13/ats-screener/internal/domain"
	"github.com/fairyhunter13/ats-screener/pkg/textx"
)

var (
	emailRe   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe   = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	collegeRe = regexp.MustCompile(`(?i)\b(university|college|institute|polytechnic|academy|school of)\b`)
	yearsRe   = regexp.MustCompile(`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)`)
)

// section headers probed in both formatting checks and section slicing
var sectionHeaders = []string{"experience", "education", "skills", "projects"}

// ParseJob splits a comma-delimited requirement string into a JobProfile.
// Optional skills come from a distinct list; both default to empty.
// Empty text yields an empty profile with a nil embedding.
func ParseJob(requiredText, optionalText string) domain.JobProfile {
	return domain.JobProfile{
		RequiredSkills: splitSkills(requiredText),
		OptionalSkills: splitSkills(optionalText),
		RawText:        textx.SanitizeText(requiredText),
	}
}

// ParseResume extracts scalar fields, the skill set and a feature vector of
// the given dimensionality from resume text. featureDim must match the
// loaded weight vector; when nothing numeric can be derived the vector is
// all zeros rather than absent.
func ParseResume(text string, featureDim int) domain.ResumeProfile {
	raw := textx.SanitizeText(text)
	p := domain.ResumeProfile{RawText: raw}
	if raw == "" {
		p.FeatureVector = make([]float64, featureDim)
		return p
	}

	lines := strings.Split(raw, "\n")
	p.Name = firstLineName(lines)
	p.Email = emailRe.FindString(raw)
	p.Phone = strings.TrimSpace(phoneRe.FindString(raw))
	p.College = collegeLine(lines)
	p.EducationText = sectionSlice(lines, "education")
	p.ExperienceText = sectionSlice(lines, "experience")
	p.ProjectsText = sectionSlice(lines, "projects")
	p.Skills = splitSkills(sectionSlice(lines, "skills"))
	p.FeatureVector = featureVector(p, featureDim)
	return p
}

// splitSkills splits on commas, semicolons, bullets and newlines, trims,
// lowercases, drops empties and deduplicates while preserving order.
func splitSkills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '•' || r == '|'
	})
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "-")))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// firstLineName treats the first short, letter-bearing, non-contact line as
// the candidate name.
func firstLineName(lines []string) string {
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.Contains(l, "@") || phoneRe.MatchString(l) {
			return ""
		}
		if len(strings.Fields(l)) > 5 {
			return ""
		}
		return l
	}
	return ""
}

func collegeLine(lines []string) string {
	for _, l := range lines {
		if collegeRe.MatchString(l) {
			return strings.TrimSpace(l)
		}
	}
	return ""
}

// sectionSlice returns the text between a section header line and the next
// recognized header (or end of document).
func sectionSlice(lines []string, header string) string {
	start := -1
	for i, l := range lines {
		if isHeaderLine(l, header) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range lines[start:] {
		if h, ok := headerOf(l); ok && h != header {
			break
		}
		b.WriteString(l)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func isHeaderLine(line, header string) bool {
	h, ok := headerOf(line)
	return ok && h == header
}

// headerOf reports whether a line is a section header and which one.
// Headers are short lines mentioning one of the known section keywords.
func headerOf(line string) (string, bool) {
	l := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":")))
	if l == "" || len(strings.Fields(l)) > 3 {
		return "", false
	}
	for _, h := range sectionHeaders {
		if strings.Contains(l, h) {
			return h, true
		}
	}
	return "", false
}

// featureVector derives numeric features from the parsed profile and resizes
// them to dim, padding with zeros or truncating as needed.
func featureVector(p domain.ResumeProfile, dim int) []float64 {
	if dim <= 0 {
		return nil
	}
	base := []float64{
		capped(float64(textx.WordCount(p.RawText)) / 500.0),
		capped(float64(len(p.Skills)) / 10.0),
		sectionsFound(p) / 4.0,
		boolFeature(p.EducationText != "" || p.College != ""),
		boolFeature(textx.ContainsDigit(p.RawText)),
		capped(yearsOfExperience(p.RawText) / 10.0),
	}
	out := make([]float64, dim)
	copy(out, base)
	return out
}

func sectionsFound(p domain.ResumeProfile) float64 {
	n := 0.0
	if p.ExperienceText != "" {
		n++
	}
	if p.EducationText != "" {
		n++
	}
	if len(p.Skills) > 0 {
		n++
	}
	if p.ProjectsText != "" {
		n++
	}
	return n
}

func yearsOfExperience(raw string) float64 {
	m := yearsRe.FindStringSubmatch(raw)
	if len(m) < 2 {
		return 0
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return float64(y)
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
