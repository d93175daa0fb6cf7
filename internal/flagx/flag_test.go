package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "localhost:8080", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:8080"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=server.json", "-v"},
			allowed: []string{"--config"},
			want:    []string{"--config=server.json"},
		},
		{
			name:    "flag without value followed by another flag",
			args:    []string{"-d", "-a", "addr"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "x"},
			allowed: []string{"-b"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestExcludeArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		excluded []string
		want     []string
	}{
		{
			name:     "drops flag with value",
			args:     []string{"-a", "localhost:8080", "-p", "p1"},
			excluded: []string{"-a"},
			want:     []string{"-p", "p1"},
		},
		{
			name:     "drops equals form",
			args:     []string{"-t=30", "-f", "a.png"},
			excluded: []string{"-t"},
			want:     []string{"-f", "a.png"},
		},
		{
			name:     "excluded flag followed by another flag",
			args:     []string{"-a", "-f", "a.png"},
			excluded: []string{"-a"},
			want:     []string{"-f", "a.png"},
		},
		{
			name:     "nothing excluded",
			args:     []string{"-p", "p1"},
			excluded: []string{"-a"},
			want:     []string{"-p", "p1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExcludeArgs(tc.args, tc.excluded))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })

	os.Args = []string{"app", "-c", "conf.json"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"app", "-config=other.json"}
	assert.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"app"}
	assert.Equal(t, "", JsonConfigFlags())
}
