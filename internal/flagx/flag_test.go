package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		boolFlags    []string
		want         []string
	}{
		{
			name:         "short flag with separate value",
			args:         []string{"-c", "conf.json", "-a", "localhost"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "conf.json"},
		},
		{
			name:         "long spelling matches short registration",
			args:         []string{"--config=alt.json", "-a", "localhost"},
			allowedFlags: []string{"-config"},
			want:         []string{"--config=alt.json"},
		},
		{
			name:         "order preserved",
			args:         []string{"--config=first.json", "-c", "second.json", "-x", "1"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"--config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags and positionals ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-c"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "next flag is not a value",
			args:         []string{"-c", "-notvalue"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "lone dash is a value",
			args:         []string{"-k", "-"},
			allowedFlags: []string{"-k"},
			want:         []string{"-k", "-"},
		},
		{
			name:         "bool flag does not consume",
			args:         []string{"-v", "file.txt", "-w", "4"},
			allowedFlags: []string{"-v", "-w"},
			boolFlags:    []string{"-v"},
			want:         []string{"-v", "-w", "4"},
		},
		{
			name:         "double dash stops scanning",
			args:         []string{"-w", "2", "--", "-w", "3"},
			allowedFlags: []string{"-w"},
			want:         []string{"-w", "2"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags, tt.boolFlags...)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	v, ok := Lookup([]string{"-a", "x", "-config", "cfg.json"}, "-c", "-config")
	assert.True(t, ok)
	assert.Equal(t, "cfg.json", v)

	v, ok = Lookup([]string{"--c=inline.json"}, "-c")
	assert.True(t, ok)
	assert.Equal(t, "inline.json", v)

	_, ok = Lookup([]string{"-c"}, "-c")
	assert.False(t, ok)

	_, ok = Lookup(nil, "-c")
	assert.False(t, ok)
}

func TestConfigAndEnvFileFlags(t *testing.T) {
	args := []string{"-u", "http://x", "-c", "conf.json", "-env", ".env.local"}
	assert.Equal(t, "conf.json", ConfigFileFlag(args))
	assert.Equal(t, ".env.local", EnvFileFlag(args))
	assert.Equal(t, "", ConfigFileFlag([]string{"-u", "http://x"}))
}
