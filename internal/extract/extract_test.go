package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ats-screener/internal/extract"
)

const sampleResume = `Jane Doe
jane.doe@example.com
+1 (415) 555-0176
linkedin.com/in/janedoe

Education
B.Sc. Computer Science, Stanford University, 2019

Experience
Software Engineer at Acme Corp (2019-2024)
Led migration to Go microservices, cut p99 latency by 40%.
5 years of backend development.

Skills
Python, Go, SQL, Kubernetes

Projects
Built an open-source job board crawler.
`

func TestParseResume_Fields(t *testing.T) {
	t.Parallel()
	p := extract.ParseResume(sampleResume, 6)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "jane.doe@example.com", p.Email)
	assert.Contains(t, p.Phone, "415")
	assert.Contains(t, p.College, "Stanford University")
	assert.Contains(t, p.ExperienceText, "Acme Corp")
	assert.Contains(t, p.EducationText, "Computer Science")
	assert.Contains(t, p.ProjectsText, "crawler")
	assert.Equal(t, []string{"python", "go", "sql", "kubernetes"}, p.Skills)
}

func TestParseResume_FeatureVectorDimensionality(t *testing.T) {
	t.Parallel()
	for _, dim := range []int{1, 6, 12} {
		p := extract.ParseResume(sampleResume, dim)
		require.Len(t, p.FeatureVector, dim)
	}
	// padding beyond derived features is zero
	p := extract.ParseResume(sampleResume, 12)
	for i := 6; i < 12; i++ {
		assert.Zero(t, p.FeatureVector[i])
	}
}

func TestParseResume_EmptyTextZeroVector(t *testing.T) {
	t.Parallel()
	p := extract.ParseResume("", 6)
	require.Len(t, p.FeatureVector, 6)
	for _, v := range p.FeatureVector {
		assert.Zero(t, v)
	}
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Skills)
}

func TestParseResume_MalformedNeverPanics(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"\x00\x01\x02",
		strings.Repeat("@", 10000),
		"Experience\nExperience\nExperience",
		"   \n\t\n   ",
	}
	for _, in := range inputs {
		p := extract.ParseResume(in, 4)
		require.Len(t, p.FeatureVector, 4)
	}
}

func TestParseJob_SplitsAndTrims(t *testing.T) {
	t.Parallel()
	j := extract.ParseJob(" Python , SQL ,, Go ,", "Docker, ")
	assert.Equal(t, []string{"python", "sql", "go"}, j.RequiredSkills)
	assert.Equal(t, []string{"docker"}, j.OptionalSkills)
	assert.Nil(t, j.Embedding)
}

func TestParseJob_EmptyText(t *testing.T) {
	t.Parallel()
	j := extract.ParseJob("", "")
	assert.Empty(t, j.RequiredSkills)
	assert.Empty(t, j.OptionalSkills)
	assert.Empty(t, j.RawText)
}
