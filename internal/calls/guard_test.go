package calls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_Destination(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		safe      string
		requested string
		want      string
		wantErr   bool
	}{
		{name: "test mode swaps number", mode: "TEST", safe: "+14084106151", requested: "+14155550100", want: "+14084106151"},
		{name: "empty mode means test", mode: "", safe: "+14084106151", requested: "+14155550100", want: "+14084106151"},
		{name: "unknown mode means test", mode: "staging", safe: "+14084106151", requested: "+14155550100", want: "+14084106151"},
		{name: "live lower case", mode: "live", safe: "+14084106151", requested: " +14155550100 ", want: "+14155550100"},
		{name: "test mode without safe number", mode: "TEST", requested: "+14155550100", wantErr: true},
		{name: "live without number", mode: "LIVE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGuard(tt.mode, tt.safe)
			got, err := g.Destination(tt.requested)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGuard_Mode(t *testing.T) {
	assert.Equal(t, "TEST", NewGuard("", "").Mode())
	assert.True(t, NewGuard("Live", "").IsLive())
	assert.False(t, NewGuard("TEST", "").IsLive())
}
