package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/jiraconf/pkg/domain/types"
)

func TestNewURLToken(t *testing.T) {
	a := types.NewURLToken()
	b := types.NewURLToken()

	gt.True(t, a.IsValid())
	gt.True(t, b.IsValid())
	gt.NotEqual(t, a, b)
	gt.Equal(t, len(a.String()), 36)
}

func TestURLToken_IsValid(t *testing.T) {
	gt.False(t, types.URLToken("").IsValid())
	gt.False(t, types.URLToken("not-a-uuid").IsValid())
	gt.True(t, types.URLToken("3f1c2a7e-8d4b-4c1e-9a55-0b6f2d9e7c10").IsValid())
}
