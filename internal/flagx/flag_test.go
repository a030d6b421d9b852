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
			args:    []string{"-a", "localhost:8080", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:8080"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-v"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag without value",
			args:    []string{"-force", "-a", "addr"},
			allowed: []string{"-force"},
			want:    []string{"-force"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "b"},
			allowed: []string{"-z"},
			want:    []string{},
		},
		{
			name:    "empty args",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"scenic", "-c", "conf.json", "-a", "addr"}
	assert.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"scenic", "--config=other.json"}
	assert.Equal(t, "other.json", JsonConfigFlags())

	os.Args = []string{"scenic", "-a", "addr"}
	assert.Equal(t, "", JsonConfigFlags())
}
