package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleSurveyData(t *testing.T) {
	assert.Len(t, sampleCategories, 5)

	total := 0
	for _, cat := range sampleCategories {
		assert.NotEmpty(t, cat.name)
		assert.NotEmpty(t, cat.description)
		assert.Len(t, cat.questions, 4, "category %q", cat.name)
		total += len(cat.questions)
	}
	assert.Equal(t, 20, total)
}
