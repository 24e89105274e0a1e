package document

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// aliasBomb nests levels of ten aliases each, so a few hundred bytes stand
// for 10^levels scalars.
func aliasBomb(levels int) string {
	var b strings.Builder
	b.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i <= levels; i++ {
		refs := make([]string, 10)
		for j := range refs {
			refs[j] = fmt.Sprintf("*a%d", i-1)
		}
		fmt.Fprintf(&b, "a%d: &a%d [%s]\n", i, i, strings.Join(refs, ", "))
	}
	return b.String()
}

func TestParseRejectsExcessiveAliasing(t *testing.T) {
	data := aliasBomb(8)
	require.Less(t, len(data), 600)

	_, err := Parse([]byte(data))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExcessiveAliasing)

	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestParseAllowsModestAliasing(t *testing.T) {
	n, err := Parse([]byte(aliasBomb(1)))
	require.NoError(t, err)

	a1, ok := n.(*Mapping).Get("a1")
	require.True(t, ok)
	require.Len(t, a1.(*Sequence).Items, 10)
	assert.Len(t, a1.(*Sequence).Items[9].(*Sequence).Items, 10)
}

func TestParseSharesAnchoredSubtrees(t *testing.T) {
	n, err := Parse([]byte("base: &b {x: 1}\none: *b\ntwo: *b\n"))
	require.NoError(t, err)

	m := n.(*Mapping)
	base, _ := m.Get("base")
	one, _ := m.Get("one")
	two, _ := m.Get("two")
	assert.Same(t, base, one)
	assert.Same(t, one, two)
}

func TestParseSelfReferencingAnchor(t *testing.T) {
	_, err := Parse([]byte("a: &a [1, *a]\n"))
	require.Error(t, err)

	var le *LoadError
	assert.True(t, errors.As(err, &le))
}

func TestParseMergeKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		keys  []string
		want  map[string]any
	}{
		{
			name:  "single mapping",
			input: "defaults: &d {task: T, task_variation: v1}\nrun:\n  cohort: A\n  <<: *d\n",
			keys:  []string{"task", "task_variation", "cohort"},
			want:  map[string]any{"task": "T", "task_variation": "v1", "cohort": "A"},
		},
		{
			name:  "explicit keys win",
			input: "defaults: &d {task: T, cohort: B}\nrun:\n  <<: *d\n  cohort: A\n",
			keys:  []string{"task", "cohort"},
			want:  map[string]any{"task": "T", "cohort": "A"},
		},
		{
			name:  "earlier source wins",
			input: "one: &one {task: first}\ntwo: &two {task: second, extra: 1}\nrun:\n  <<: [*one, *two]\n",
			keys:  []string{"task", "extra"},
			want:  map[string]any{"task": "first", "extra": 1},
		},
		{
			name:  "inline mapping",
			input: "run:\n  <<: {task: T}\n  cohort: A\n",
			keys:  []string{"task", "cohort"},
			want:  map[string]any{"task": "T", "cohort": "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse([]byte(tt.input))
			require.NoError(t, err)

			run, ok := n.(*Mapping).Get("run")
			require.True(t, ok)
			m := run.(*Mapping)
			assert.Equal(t, tt.keys, m.Keys())
			assert.False(t, m.Has("<<"))
			for key, want := range tt.want {
				got, ok := m.Get(key)
				require.True(t, ok, key)
				assert.Equal(t, want, got.(*Scalar).Value, key)
			}
		})
	}
}

func TestParseQuotedMergeKeyIsPlain(t *testing.T) {
	n, err := Parse([]byte("\"<<\": {task: T}\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"<<"}, n.(*Mapping).Keys())
}

func TestParseInvalidMergeValue(t *testing.T) {
	for _, input := range []string{
		"run:\n  <<: 3\n",
		"run:\n  <<: [{a: 1}, 2]\n",
	} {
		_, err := Parse([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestParseDuplicateKeyAlongsideMerge(t *testing.T) {
	_, err := Parse([]byte("d: &d {a: 1}\nrun:\n  <<: *d\n  b: 1\n  b: 2\n"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}
