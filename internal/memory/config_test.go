package memory

import (
	"testing"
)

type fakeEnv map[string]string

func (f fakeEnv) get(key string) string { return f[key] }

// recorder stands in for debug.SetMemoryLimit.
type recorder struct {
	current int64
	set     []int64
}

func (r *recorder) setLimit(limit int64) int64 {
	prev := r.current
	if limit >= 0 {
		r.set = append(r.set, limit)
		r.current = limit
	}
	return prev
}

func TestConfigure(t *testing.T) {
	t.Parallel()

	var gib = int64(1 << 30)

	tests := []struct {
		name        string
		env         fakeEnv
		current     int64
		want        ConfigResult
		wantApplied bool
	}{
		{
			name: "nothing set",
			env:  fakeEnv{},
			want: ConfigResult{Source: SourceNone},
		},
		{
			name:    "GOMEMLIMIT wins",
			env:     fakeEnv{"GOMEMLIMIT": "512MiB", "MEMORY_LIMIT": "1073741824"},
			current: 512 << 20,
			want:    ConfigResult{Configured: true, Source: SourceGoMemLimit, GoMemLimit: 512 << 20},
		},
		{
			name:    "GOMEMLIMIT off",
			env:     fakeEnv{"GOMEMLIMIT": "off"},
			current: 1<<63 - 1,
			want:    ConfigResult{Source: SourceNone},
		},
		{
			name:        "container limit default ratio",
			env:         fakeEnv{"MEMORY_LIMIT": "1073741824"},
			want:        ConfigResult{Configured: true, Source: SourceMemoryLimit, ContainerLimit: gib, GoMemLimit: int64(float64(gib) * 0.85), Ratio: 0.85},
			wantApplied: true,
		},
		{
			name:        "custom ratio",
			env:         fakeEnv{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "0.5"},
			want:        ConfigResult{Configured: true, Source: SourceMemoryLimit, ContainerLimit: gib, GoMemLimit: gib / 2, Ratio: 0.5},
			wantApplied: true,
		},
		{
			name:        "ratio out of range",
			env:         fakeEnv{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "1.5"},
			want:        ConfigResult{Configured: true, Source: SourceMemoryLimit, ContainerLimit: gib, GoMemLimit: int64(float64(gib) * 0.85), Ratio: 0.85},
			wantApplied: true,
		},
		{
			name:        "ratio unparsable",
			env:         fakeEnv{"MEMORY_LIMIT": "1073741824", "MEMORY_RATIO": "most"},
			want:        ConfigResult{Configured: true, Source: SourceMemoryLimit, ContainerLimit: gib, GoMemLimit: int64(float64(gib) * 0.85), Ratio: 0.85},
			wantApplied: true,
		},
		{
			name: "limit unparsable",
			env:  fakeEnv{"MEMORY_LIMIT": "1Gi"},
			want: ConfigResult{Source: SourceNone},
		},
		{
			name: "limit negative",
			env:  fakeEnv{"MEMORY_LIMIT": "-1"},
			want: ConfigResult{Source: SourceNone},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := &recorder{current: tt.current}

			got := configure(tt.env.get, rec.setLimit)

			if got != tt.want {
				t.Errorf("configure() = %+v, want %+v", got, tt.want)
			}
			if tt.wantApplied {
				if len(rec.set) != 1 || rec.set[0] != tt.want.GoMemLimit {
					t.Errorf("expected SetMemoryLimit(%d), got %v", tt.want.GoMemLimit, rec.set)
				}
			} else if len(rec.set) != 0 {
				t.Errorf("expected no limit to be applied, got %v", rec.set)
			}
		})
	}
}

func TestParseRatio(t *testing.T) {
	t.Parallel()

	tests := map[string]float64{
		"":     DefaultMemoryRatio,
		"0.7":  0.7,
		"1":    1.0,
		"0":    DefaultMemoryRatio,
		"-0.2": DefaultMemoryRatio,
		"NaN":  DefaultMemoryRatio,
	}
	for in, want := range tests {
		if got := parseRatio(in); got != want {
			t.Errorf("parseRatio(%q) = %v, want %v", in, got, want)
		}
	}
}
