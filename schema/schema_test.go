package schema

import (
	"errors"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportArgs struct {
	Text    string   `json:"text" jsonschema:"the text to summarize"`
	Count   int      `json:"count"`
	Tags    []string `json:"tags,omitempty"`
	Verbose bool     `json:"verbose,omitempty"`
}

func TestFor_Fields(t *testing.T) {
	s, err := For[reportArgs]()
	require.NoError(t, err)

	assert.Equal(t, []string{"count", "tags", "text", "verbose"}, s.Fields())
	assert.ElementsMatch(t, []string{"text", "count"}, s.Required())
	assert.True(t, s.Has("text"))
	assert.False(t, s.Has("other"))
}

func TestValidate(t *testing.T) {
	s := MustFor[reportArgs]()

	tests := []struct {
		name    string
		values  map[string]any
		wantErr bool
		field   string
	}{
		{
			name:   "valid",
			values: map[string]any{"text": "hello", "count": 3},
		},
		{
			name:   "extra keys ignored",
			values: map[string]any{"text": "hello", "count": 3, "unrelated": []int{1}},
		},
		{
			name:    "missing required",
			values:  map[string]any{"count": 3},
			wantErr: true,
			field:   "text",
		},
		{
			name:    "mistyped",
			values:  map[string]any{"text": "hello", "count": "three"},
			wantErr: true,
		},
		{
			name:   "optional present",
			values: map[string]any{"text": "hello", "count": 1, "tags": []string{"a", "b"}, "verbose": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(tt.values)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			if tt.field != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.field, verr.Field)
			}
		})
	}
}

func TestFilterAndMissing(t *testing.T) {
	s := MustFor[reportArgs]()
	values := map[string]any{"text": "x", "noise": 1}

	assert.Equal(t, map[string]any{"text": "x"}, s.Filter(values))
	assert.Equal(t, []string{"count"}, s.Missing(values))
	assert.Empty(t, s.Missing(map[string]any{"text": "x", "count": 0}))
}

func TestDecode(t *testing.T) {
	s := MustFor[reportArgs]()

	var out reportArgs
	err := s.Decode(map[string]any{"text": "hi", "count": float64(2), "tags": []any{"x"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, reportArgs{Text: "hi", Count: 2, Tags: []string{"x"}}, out)

	err = s.Decode(map[string]any{"count": "two"}, &out)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExample(t *testing.T) {
	s := MustFor[reportArgs]()
	ex := s.Example()

	assert.Equal(t, "string", ex["text"])
	assert.Equal(t, 0, ex["count"])
	assert.Equal(t, true, ex["verbose"])
	assert.Equal(t, []any{"string"}, ex["tags"])
}

func TestObject(t *testing.T) {
	s, err := Object(map[string]*jsonschema.Schema{
		"city": {Type: "string", Description: "city name"},
		"days": {Type: "integer"},
	}, "city")
	require.NoError(t, err)

	assert.NoError(t, s.Validate(map[string]any{"city": "Lisbon"}))
	assert.Error(t, s.Validate(map[string]any{"days": 2}))

	props := s.Properties()
	city, ok := props["city"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "city name", city["description"])
	assert.Contains(t, s.JSON(), `"city"`)
}

func TestValidateValue(t *testing.T) {
	s := MustFor[reportArgs]()
	assert.NoError(t, s.ValidateValue(reportArgs{Text: "a", Count: 1}))
	assert.Error(t, s.ValidateValue(map[string]any{"text": 1, "count": 1}))
}
