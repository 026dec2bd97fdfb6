package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElMonstro/Lean/internal/application/port"
	"github.com/ElMonstro/Lean/internal/domain/model"
)

type countingModel struct {
	created int
}

func (c *countingModel) CreateTargets(port.Algorithm, []model.Insight) []model.PortfolioTarget {
	c.created++
	return nil
}

func (c *countingModel) OnSecuritiesChanged(port.Algorithm, model.SecurityChanges) {}

func TestRegistryNullRegistered(t *testing.T) {
	assert.Contains(t, Names(), NullModelName)

	for _, name := range []string{"null", " NULL ", "Null"} {
		m, err := New(name)
		require.NoError(t, err)
		assert.IsType(t, NullPortfolioConstructionModel{}, m)
	}
}

func TestRegistryUnknownModel(t *testing.T) {
	m, err := New("equal-weighting")
	require.ErrorIs(t, err, ErrUnknownModel)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "equal-weighting")
}

func TestRegistryRegisterAndOverwrite(t *testing.T) {
	const name = "test-counting"
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, name)
		mu.Unlock()
	})

	Register(name, func() port.PortfolioConstructionModel { return &countingModel{} })
	first, err := New(name)
	require.NoError(t, err)
	second, err := New(name)
	require.NoError(t, err)
	assert.NotSame(t, first, second, "each New call builds a fresh instance")

	Register(name, func() port.PortfolioConstructionModel { return NewNullPortfolioConstructionModel() })
	m, err := New(name)
	require.NoError(t, err)
	assert.IsType(t, NullPortfolioConstructionModel{}, m)
}

func TestRegistryIgnoresInvalidRegistrations(t *testing.T) {
	before := Names()

	Register("broken", nil)
	Register("   ", func() port.PortfolioConstructionModel { return NewNullPortfolioConstructionModel() })

	assert.Equal(t, before, Names())
	_, ok := Get("broken")
	assert.False(t, ok)
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		delete(registry, "aaa-first")
		mu.Unlock()
	})
	Register("aaa-first", func() port.PortfolioConstructionModel { return &countingModel{} })

	names := Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "aaa-first", names[0])
	assert.IsIncreasing(t, names)
}
