package betrules

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombinationsFor(t *testing.T) {
	want := map[int]int64{2: 1, 3: 3, 4: 6, 5: 10, 10: 45}
	for n, c := range want {
		got, err := CombinationsFor(Permutation, n)
		require.NoError(t, err)
		assert.Equal(t, c, got, "n=%d", n)
	}

	for _, n := range []int{0, 1} {
		_, err := CombinationsFor(Permutation, n)
		assert.True(t, IsReason(err, InvalidSelectionCount), "n=%d", n)
	}

	for _, bt := range Types() {
		if bt == Permutation {
			continue
		}
		got, err := CombinationsFor(bt, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got, bt.String())
	}
}

func TestTotalCost(t *testing.T) {
	for n := 2; n <= 10; n++ {
		for _, stake := range []int64{1, 100, 2500} {
			combos, _ := CombinationsFor(Permutation, n)
			cost, err := TotalCost(Permutation, n, stake)
			require.NoError(t, err)
			assert.Equal(t, combos*stake, cost)
		}
	}

	cost, err := TotalCost(NAP2, 2, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), cost)

	_, err = TotalCost(NAP2, 2, 0)
	assert.True(t, IsReason(err, InvalidStake))
}

func TestMultiplierFor(t *testing.T) {
	m := Multipliers{NAP2: 240, NAP3: 0}
	assert.Equal(t, int64(240), MultiplierFor(m, NAP2))
	assert.Equal(t, int64(2500), MultiplierFor(m, NAP3), "non-positive override falls back")
	assert.Equal(t, int64(90), MultiplierFor(nil, ChancePlus))
	assert.Equal(t, int64(240), m.For(NAP2))

	merged := m.Merge()
	assert.Equal(t, int64(240), merged[NAP2])
	assert.Equal(t, int64(2500), merged[NAP3])
	assert.Len(t, merged, 9)

	assert.True(t, IsReason(m.Validate(), InvalidMultiplier))
	assert.NoError(t, DefaultMultipliers().Validate())
}

func TestCheckBalance(t *testing.T) {
	assert.NoError(t, CheckBalance(600, 600))
	err := CheckBalance(601, 600)
	require.Error(t, err)
	assert.Equal(t, InsufficientStake, ReasonOf(err))
	assert.Contains(t, err.Error(), "601")
}

func TestInvert(t *testing.T) {
	assert.Equal(t, 32, Invert(23))
	assert.Equal(t, 7, Invert(7))
	assert.Equal(t, 1, Invert(10))
	assert.Equal(t, 98, Invert(89))

	inv, show := InvertInPool(23, 90)
	assert.Equal(t, 32, inv)
	assert.True(t, show)

	_, show = InvertInPool(19, 90)
	assert.False(t, show, "91 is outside the pool")
	_, show = InvertInPool(7, 90)
	assert.False(t, show)
	_, show = InvertInPool(44, 90)
	assert.False(t, show)
}

func TestPairs(t *testing.T) {
	assert.Equal(t, [][2]int{{5, 12}, {5, 33}, {12, 33}}, Pairs([]int{5, 12, 33}))
	assert.Nil(t, Pairs([]int{5}))
	assert.Len(t, Pairs([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}), 45)
}

func TestPrice(t *testing.T) {
	t.Run("nap2 with override", func(t *testing.T) {
		q, err := Price(NAP2, Selection{Numbers: []int{12, 47}}, 500, Multipliers{NAP2: 240}, 90)
		require.NoError(t, err)
		assert.Equal(t, int64(1), q.Combinations)
		assert.Equal(t, int64(500), q.TotalCost)
		assert.Equal(t, int64(240), q.Multiplier)
		assert.Equal(t, int64(120000), q.PotentialPayout)
	})

	t.Run("stray base is refused", func(t *testing.T) {
		_, err := Price(NAP2, Selection{Numbers: []int{12, 47}, Base: 5}, 500, nil, 90)
		require.Error(t, err)
		assert.True(t, IsReason(err, InvalidSelectionCount))
	})

	t.Run("permutation pays per combination", func(t *testing.T) {
		q, err := Price(Permutation, Selection{Numbers: []int{5, 12, 33, 81}}, 100, nil, 90)
		require.NoError(t, err)
		assert.Equal(t, int64(6), q.Combinations)
		assert.Equal(t, int64(600), q.TotalCost)
		assert.Equal(t, int64(100*500), q.PotentialPayout)
		assert.Len(t, q.Pairs, 6)
	})

	t.Run("anagramme shows inversion", func(t *testing.T) {
		q, err := Price(Anagramme, Selection{Numbers: []int{23}}, 200, nil, 90)
		require.NoError(t, err)
		assert.Equal(t, 32, q.Inverted)

		q, err = Price(Anagramme, Selection{Numbers: []int{7}}, 200, nil, 90)
		require.NoError(t, err)
		assert.Zero(t, q.Inverted)
	})

	t.Run("invalid selection has no quote", func(t *testing.T) {
		q, err := Price(NAP3, Selection{Numbers: []int{1, 2}}, 100, nil, 90)
		assert.True(t, IsReason(err, InvalidSelectionCount))
		assert.Zero(t, q)
	})
}

func TestQuickPick(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, bt := range Types() {
		for i := 0; i < 20; i++ {
			sel, err := QuickPick(bt, 90, rng)
			require.NoError(t, err)
			assert.NoError(t, ValidateSelection(bt, sel, 90), "%s %+v", bt, sel)
		}
	}

	_, err := QuickPick(NAP5, 4, rng)
	assert.Error(t, err)
}

func TestEncodeNumbers(t *testing.T) {
	assert.Equal(t, "12,47", EncodeNumbers(Selection{Numbers: []int{12, 47}}))
	assert.Equal(t, "4,5,6", EncodeNumbers(Selection{Base: 4, Numbers: []int{5, 6}}))

	nums, err := DecodeNumbers("4, 5,6")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, nums)

	_, err = DecodeNumbers("4,x")
	assert.Error(t, err)
}
