package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["uid", "categories"],
		"properties": {
			"uid": {"type": "string"},
			"categories": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 1
			}
		}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	doc := `[{"uid": "~0123", "categories": ["Automation / Scraping / Workflow"]}]`

	err := ValidateJSONString(testSchema, doc)
	assert.NoError(t, err)
}

func TestValidateJSONString_MissingRequiredField(t *testing.T) {
	doc := `[{"uid": "~0123"}]`

	err := ValidateJSONString(testSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Errors, 1)
	assert.Contains(t, ve.Errors[0].Message, "categories")
}

func TestValidateJSONString_WrongType(t *testing.T) {
	doc := `[{"uid": 42, "categories": ["NLP / Text Analysis"]}]`

	err := ValidateJSONString(testSchema, doc)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "0.uid", ve.Errors[0].Field)
}

func TestValidateJSONString_MalformedSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": [`, `{}`)
	require.Error(t, err)

	var se *SchemaLoadError
	assert.True(t, errors.As(err, &se))
}
