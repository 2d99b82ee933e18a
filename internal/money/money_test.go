package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEqually(t *testing.T) {
	tests := []struct {
		name  string
		total Cents
		n     int
		want  []Cents
	}{
		{name: "even split", total: 3000, n: 3, want: []Cents{1000, 1000, 1000}},
		{name: "ten dollars three ways", total: 1000, n: 3, want: []Cents{334, 333, 333}},
		{name: "two residual cents", total: 1001, n: 3, want: []Cents{334, 334, 333}},
		{name: "single share", total: 1234, n: 1, want: []Cents{1234}},
		{name: "fewer cents than shares", total: 2, n: 3, want: []Cents{1, 1, 0}},
		{name: "negative total", total: -1000, n: 3, want: []Cents{-334, -333, -333}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitEqually(tt.total, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.total, Sum(got...))
		})
	}
}

func TestSplitEquallyZeroShares(t *testing.T) {
	_, err := SplitEqually(1000, 0)
	assert.ErrorIs(t, err, ErrNoShares)
}

func TestSplitEquallyConservesEveryTotal(t *testing.T) {
	for total := Cents(1); total <= 2000; total += 7 {
		for n := 1; n <= 12; n++ {
			shares, err := SplitEqually(total, n)
			require.NoError(t, err)
			require.Equal(t, total, Sum(shares...), "total=%d n=%d", total, n)
			for i := 1; i < len(shares); i++ {
				require.LessOrEqual(t, shares[i-1]-shares[i], Cents(1))
				require.GreaterOrEqual(t, shares[i-1], shares[i])
			}
		}
	}
}

func TestFromDecimalRounding(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"10", 1000},
		{"10.5", 1050},
		{"0.005", 1},
		{"0.004", 0},
		{"3.335", 334},
		{"-1.005", -101},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FromDecimal(decimal.RequireFromString(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromDecimalRange(t *testing.T) {
	got, err := FromDecimal(decimal.RequireFromString("10000000000000"))
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, got)

	got, err = FromDecimal(decimal.RequireFromString("-10000000000000.004"))
	require.NoError(t, err)
	assert.Equal(t, -MaxAmount, got)

	// These used to wrap to 0.01 and a large negative amount.
	for _, in := range []string{"10000000000000.01", "184467440737095516.17", "1e30", "-1e30"} {
		t.Run(in, func(t *testing.T) {
			_, err := FromDecimal(decimal.RequireFromString(in))
			assert.ErrorIs(t, err, ErrOutOfRange)
		})
	}

	_, err = Parse("184467440737095516.17")
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAddSub(t *testing.T) {
	const top = Cents(math.MaxInt64)

	sum, ok := Add(40, 2)
	assert.True(t, ok)
	assert.Equal(t, Cents(42), sum)

	_, ok = Add(top, 1)
	assert.False(t, ok)
	_, ok = Add(-top, -2)
	assert.False(t, ok)
	sum, ok = Add(top, -top)
	assert.True(t, ok)
	assert.Equal(t, Cents(0), sum)

	diff, ok := Sub(10, 25)
	assert.True(t, ok)
	assert.Equal(t, Cents(-15), diff)

	_, ok = Sub(top, -1)
	assert.False(t, ok)
	_, ok = Sub(-top, 2)
	assert.False(t, ok)
}

func TestParseAndString(t *testing.T) {
	c, err := Parse("12.3")
	require.NoError(t, err)
	assert.Equal(t, Cents(1230), c)
	assert.Equal(t, "12.30", c.String())
	assert.Equal(t, "-0.05", Cents(-5).String())

	_, err = Parse("twelve")
	assert.Error(t, err)
}

func TestFromFloat(t *testing.T) {
	c, err := FromFloat(33.33)
	require.NoError(t, err)
	assert.Equal(t, Cents(3333), c)
	c, err = FromFloat(0.1)
	require.NoError(t, err)
	assert.Equal(t, Cents(10), c)
	_, err = FromFloat(1e19)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.True(t, Cents(1999).Decimal().Equal(decimal.RequireFromString("19.99")))
}
