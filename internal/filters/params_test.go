package filters

import (
	"testing"
)

func TestParamsInt(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		key    string
		def    int
		want   int
	}{
		{"nil params", nil, "Columns", 7, 7},
		{"missing key", Params{"Rows": 3}, "Columns", 7, 7},
		{"int value", Params{"Columns": 100}, "Columns", 7, 100},
		{"int64 value", Params{"Columns": int64(12)}, "Columns", 7, 12},
		{"float value", Params{"Columns": 2.0}, "Columns", 7, 2},
		{"wrong type", Params{"Columns": "wide"}, "Columns", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Int(tt.key, tt.def); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParamsBool(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		key    string
		def    bool
		want   bool
	}{
		{"nil params", nil, "BlackIs1", false, false},
		{"missing key", Params{}, "BlackIs1", true, true},
		{"true", Params{"BlackIs1": true}, "BlackIs1", false, true},
		{"false", Params{"BlackIs1": false}, "BlackIs1", true, false},
		{"wrong type", Params{"BlackIs1": 1}, "BlackIs1", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Bool(tt.key, tt.def); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
