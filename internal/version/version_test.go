package version

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "major.minor", input: "1.0", want: "1.0"},
		{name: "single component", input: "3", want: "3"},
		{name: "three components", input: "2.10.1", want: "2.10.1"},
		{name: "whitespace", input: " 1.2 ", want: "1.2"},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "1.a", wantErr: true},
		{name: "trailing dot", input: "1.", wantErr: true},
		{name: "negative", input: "-1.0", wantErr: true},
		{name: "explicit plus", input: "+1.0", wantErr: true},
		{name: "v prefix", input: "v1.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.1", -1},
		{"1.9", "1.10", -1},
		{"2.0", "1.99", 1},
		{"1", "1.0", -1},
		{"1.0.1", "1.0", 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s vs %s", tt.a, tt.b), func(t *testing.T) {
			got, err := Compare(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Compare("1.0", "x")
	assert.Error(t, err)
}

func TestSort(t *testing.T) {
	got, err := Sort([]string{"1.10", "1.2", "1.9", "0.1", "2.0"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0.1", "1.2", "1.9", "1.10", "2.0"}, got)

	_, err = Sort([]string{"1.0", "bogus"})
	assert.Error(t, err)
}

func TestProperty_VersionOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	genVersion := gen.SliceOfN(3, gen.IntRange(0, 20)).Map(func(parts []int) string {
		return fmt.Sprintf("%d.%d.%d", parts[0], parts[1], parts[2])
	})

	properties.Property("compare is antisymmetric", prop.ForAll(
		func(a, b string) bool {
			ab, err1 := Compare(a, b)
			ba, err2 := Compare(b, a)
			return err1 == nil && err2 == nil && ab == -ba
		},
		genVersion, genVersion,
	))

	properties.Property("incrementing the last component sorts later", prop.ForAll(
		func(major, minor int) bool {
			lower := fmt.Sprintf("%d.%d", major, minor)
			higher := fmt.Sprintf("%d.%d", major, minor+1)
			c, err := Compare(lower, higher)
			return err == nil && c < 0
		},
		gen.IntRange(0, 50), gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}
