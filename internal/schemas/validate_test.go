package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResume_Valid(t *testing.T) {
	doc := `{
		"full_name": "Ada Lovelace",
		"skills": "Go, PostgreSQL",
		"experience": [{"company": "Acme", "title": "Engineer", "desc": "Built APIs", "achievements": "Cut latency 40%"}],
		"projects": [{"name": "devapply", "tech": "Go"}],
		"education": [],
		"awards": []
	}`
	assert.NoError(t, ValidateResume(doc))
}

func TestValidateResume_WrongTypes(t *testing.T) {
	doc := `{"skills": ["Go"], "projects": {"name": "x"}}`
	err := ValidateResume(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Contains(t, fields, "skills")
	assert.Contains(t, fields, "projects")
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateResume_NotAnObject(t *testing.T) {
	err := ValidateResume(`["not", "a", "resume"]`)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "(root)", ve.Errors[0].Field)
}

func TestValidateJSONString_BadSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var le *SchemaLoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestValidateJSONString_MalformedDocument(t *testing.T) {
	err := ValidateJSONString(`{"type": "object"}`, `{not json`)
	assert.Error(t, err)
}

func TestResumeSchemaEmbedded(t *testing.T) {
	assert.Contains(t, ResumeSchema(), `"full_name"`)
}
