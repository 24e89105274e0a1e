package template

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/kestrel/internal/document"
)

const sample = `version: "1.0"
cohort: <string>
task: <string>
task_variation: <string>
max_rows: <int>
columns:
  - <column_name_or_index>
options:
  sheet: <string>
notes: free text
empty: []
`

func TestParseBytes(t *testing.T) {
	tmpl, err := ParseBytes([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "1.0", tmpl.Version)
	assert.Equal(t, []string{"cohort", "task", "task_variation", "max_rows", "columns", "options", "notes", "empty"}, tmpl.Names())
	assert.True(t, tmpl.Has("cohort"))
	assert.False(t, tmpl.Has("version"))
	assert.False(t, tmpl.Has("unknown"))

	byName := make(map[string]Field)
	for _, f := range tmpl.Fields {
		byName[f.Name] = f
	}

	assert.Equal(t, Placeholder{Tag: TagString}, byName["cohort"].Value)
	assert.Equal(t, Placeholder{Tag: TagInt}, byName["max_rows"].Value)
	assert.Equal(t, ListOf{Element: Placeholder{Tag: TagColumnNameOrIndex}}, byName["columns"].Value)
	assert.Equal(t, ListOf{}, byName["empty"].Value)
	assert.Equal(t, 2, byName["cohort"].Line)

	nested, ok := byName["options"].Value.(Nested)
	require.True(t, ok)
	require.Len(t, nested.Fields, 1)
	assert.Equal(t, "sheet", nested.Fields[0].Name)

	_, ok = byName["notes"].Value.(Literal)
	assert.True(t, ok, "plain strings are literals")
}

func TestParseUnquotedVersion(t *testing.T) {
	tmpl, err := ParseBytes([]byte("version: 1.10\ncohort: <string>\n"))
	require.NoError(t, err)
	assert.Equal(t, "1.10", tmpl.Version, "version keeps its written form")
}

func TestParseSchemaShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing version", "cohort: <string>\n", "must have a 'version' field"},
		{"null version", "version:\ncohort: <string>\n", "non-empty scalar"},
		{"mapping version", "version: {major: 1}\n", "non-empty scalar"},
		{"sequence root", "- a\n", "must be a mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.src))
			require.Error(t, err)

			var se *SchemaShapeError
			require.True(t, errors.As(err, &se), "got %T", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "template.yaml", []byte(sample), 0644))

	tmpl, err := Load(fs, "template.yaml")
	require.NoError(t, err)
	assert.Equal(t, "1.0", tmpl.Version)

	_, err = Load(fs, "missing.yaml")
	var le *document.LoadError
	assert.True(t, errors.As(err, &le))
}

func TestTypeTagAccepts(t *testing.T) {
	str := document.NewScalar("a")
	num := document.NewScalar(3)
	flt := document.NewScalar(1.5)
	list := document.NewSequence()

	assert.True(t, TagString.Accepts(str))
	assert.False(t, TagString.Accepts(num))
	assert.True(t, TagInt.Accepts(num))
	assert.False(t, TagInt.Accepts(flt))
	assert.False(t, TagInt.Accepts(document.NewScalar(true)))
	assert.True(t, TagColumnNameOrIndex.Accepts(str))
	assert.True(t, TagColumnNameOrIndex.Accepts(num))
	assert.False(t, TagColumnNameOrIndex.Accepts(list))

	unknown := TypeTag("<date>")
	assert.False(t, unknown.Known())
	assert.True(t, unknown.Accepts(list))
}

func TestLint(t *testing.T) {
	tmpl, err := ParseBytes([]byte(`version: "2.0"
cohort: <strng>
columns:
  - <colum>
options:
  sheet: <date>
  rows: <int>
`))
	require.NoError(t, err)

	var got []string
	for _, issue := range Lint(tmpl) {
		got = append(got, issue.String())
	}
	assert.Equal(t, []string{
		"Field 'cohort' (line 2): unknown type placeholder '<strng>'",
		"Field 'columns[]' (line 4): unknown type placeholder '<colum>'",
		"Field 'options.sheet' (line 6): unknown type placeholder '<date>'",
	}, got)

	clean, err := ParseBytes([]byte(sample))
	require.NoError(t, err)
	assert.Empty(t, Lint(clean))
}
