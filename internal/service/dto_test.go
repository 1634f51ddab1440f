package service

import (
	"testing"

	"postgraph/pkg/pagination"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestLimits_Window(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		limits Limits
		args   pagination.Args
		want   int
	}{
		{name: "configured default", limits: Limits{Default: 10, Max: 20}, want: 10},
		{name: "first clamped to max", limits: Limits{Default: 10, Max: 20}, args: pagination.Args{First: lo.ToPtr(500)}, want: 20},
		{name: "zero limits", args: pagination.Args{First: lo.ToPtr(1 << 30)}, want: MaxPageSize},
		{name: "default without max", limits: Limits{Default: 10}, args: pagination.Args{Last: lo.ToPtr(2147483647)}, want: MaxPageSize},
		{name: "default without max unset page", limits: Limits{Default: 10}, want: 10},
		{name: "max without default", limits: Limits{Max: 5}, want: 5},
		{name: "default above max", limits: Limits{Default: 30, Max: 20}, want: 20},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, err := tt.limits.window(tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, w.Size)
		})
	}
}
