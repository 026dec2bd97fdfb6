package framework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ElMonstro/Lean/internal/domain/model"
)

func TestUniverseApply(t *testing.T) {
	u := NewUniverse()

	changed := u.Apply(model.SecurityChanges{Added: []model.Security{{Symbol: " spy "}, {Symbol: "QQQ"}, {Symbol: ""}}})
	assert.True(t, changed)
	assert.Equal(t, []string{"QQQ", "SPY"}, u.Symbols())
	assert.True(t, u.Contains("spy"))

	assert.False(t, u.Apply(model.SecurityChanges{Added: []model.Security{{Symbol: "SPY"}}}), "re-adding is not a change")
	assert.False(t, u.Apply(model.SecurityChanges{Removed: []model.Security{{Symbol: "IWM"}}}), "removing unknown is not a change")

	assert.True(t, u.Apply(model.SecurityChanges{Removed: []model.Security{{Symbol: "qqq"}}}))
	assert.Equal(t, 1, u.Len())
	assert.False(t, u.Apply(model.NoSecurityChanges()))
}

func TestHostDefaults(t *testing.T) {
	h := NewHost("  ", nil)
	assert.Equal(t, "lean", h.Name())
	assert.Equal(t, time.UTC, h.UtcTime().Location())
	assert.Zero(t, h.Universe().Len())

	local := time.FixedZone("EST", -5*3600)
	h = NewHost("algo", func() time.Time { return time.Date(2024, 1, 1, 9, 30, 0, 0, local) })
	assert.True(t, time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC).Equal(h.UtcTime()))
}
