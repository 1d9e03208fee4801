package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		want    map[string]string
		wantErr bool
	}{
		{
			name: "labels with spaces",
			raw:  []string{"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)=10.0.0.0/24", "Scan Type=Quick Scan (-T4 -F)"},
			want: map[string]string{
				"Target IP/Range (e.g., 192.168.1.1 or 10.0.0.0/24)": "10.0.0.0/24",
				"Scan Type": "Quick Scan (-T4 -F)",
			},
		},
		{
			name: "value keeps later equals signs",
			raw:  []string{"Query=a=b"},
			want: map[string]string{"Query": "a=b"},
		},
		{
			name: "empty value",
			raw:  []string{"Notes="},
			want: map[string]string{"Notes": ""},
		},
		{name: "no separator", raw: []string{"verbose"}, wantErr: true},
		{name: "no label", raw: []string{"=1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
