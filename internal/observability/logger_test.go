package observability

import (
	"context"
	"testing"
)

func TestWithFields(t *testing.T) {
	tests := []struct {
		name   string
		fields [][]Field
		want   int
	}{
		{
			name:   "single field",
			fields: [][]Field{{{"request_id", "req-1"}}},
			want:   1,
		},
		{
			name: "fields accumulate across calls",
			fields: [][]Field{
				{{"request_id", "req-1"}},
				{{"path", "/api/requests"}, {"method", "POST"}},
			},
			want: 3,
		},
		{
			name:   "no fields",
			fields: nil,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			for _, fs := range tt.fields {
				ctx = WithFields(ctx, fs...)
			}
			got := getObservabilityFields(ctx)
			if len(got) != tt.want {
				t.Errorf("got %d fields, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMergeFields(t *testing.T) {
	ctx := WithFields(context.Background(),
		Field{"request_id", "req-1"},
		Field{"path", "/health"},
	)

	merged := mergeFields(ctx, []MetricField{
		{"path", "/api/requests"}, // overrides context value
		{"status", 200},
	})

	if len(merged) != 3 {
		t.Fatalf("got %d merged fields, want 3", len(merged))
	}
	for _, f := range merged {
		if f.Key == "path" && f.String != "/api/requests" {
			t.Errorf("path = %q, want metric value to win", f.String)
		}
	}
}
