package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAccountStateGrow(t *testing.T) {
	state := AccountState{
		RRIF:               decimal.NewFromInt(1000),
		RRSP:               decimal.NewFromInt(500),
		TFSA:               decimal.NewFromInt(200),
		NonRegistered:      decimal.NewFromInt(100),
		AppreciatingAssets: decimal.NewFromInt(300),
	}

	state.Grow(decimal.NewFromFloat(0.10))

	assert.True(t, state.RRIF.Equal(decimal.NewFromInt(1100)))
	assert.True(t, state.RRSP.Equal(decimal.NewFromInt(550)))
	assert.True(t, state.TFSA.Equal(decimal.NewFromInt(220)))
	assert.True(t, state.NonRegistered.Equal(decimal.NewFromInt(110)))
	assert.True(t, state.AppreciatingAssets.Equal(decimal.NewFromInt(330)),
		"appreciating assets grow with everything else, got %s", state.AppreciatingAssets)
}

func TestAccountStateWithdrawClipsAtZero(t *testing.T) {
	state := AccountState{
		RRIF:          decimal.NewFromInt(100),
		TFSA:          decimal.NewFromInt(50),
		NonRegistered: decimal.NewFromInt(25),
	}

	state.Withdraw(decimal.NewFromInt(150), decimal.NewFromInt(50), decimal.NewFromInt(10))

	assert.True(t, state.RRIF.IsZero(), "over-withdrawal clips to zero, got %s", state.RRIF)
	assert.True(t, state.TFSA.IsZero())
	assert.True(t, state.NonRegistered.Equal(decimal.NewFromInt(15)))
}

func TestFoldRRSP(t *testing.T) {
	state := AccountState{
		RRIF: decimal.NewFromInt(400000),
		RRSP: decimal.NewFromInt(100000),
	}

	state.FoldRRSP()

	assert.True(t, state.RRIF.Equal(decimal.NewFromInt(500000)))
	assert.True(t, state.RRSP.IsZero(), "RRSP should be empty after the fold")
}

func TestDrawableTotalExcludesHeldAssets(t *testing.T) {
	in := validInputs()
	in.RRSPBalance = decimal.NewFromInt(40000)
	in.AppreciatingAssets = decimal.NewFromInt(900000)
	state := NewAccountState(in)

	assert.True(t, state.DrawableTotal().Equal(decimal.NewFromInt(800000)),
		"drawable total should exclude RRSP and appreciating assets, got %s", state.DrawableTotal())
	assert.True(t, state.Total().Equal(decimal.NewFromInt(1740000)))
}

func TestZeroDrawableLeavesAppreciatingAssets(t *testing.T) {
	state := AccountState{
		RRIF:               decimal.NewFromFloat(0.004),
		TFSA:               decimal.NewFromFloat(0.001),
		NonRegistered:      decimal.Zero,
		AppreciatingAssets: decimal.NewFromInt(250000),
	}

	state.ZeroDrawable()

	assert.True(t, state.DrawableTotal().IsZero())
	assert.True(t, state.AppreciatingAssets.Equal(decimal.NewFromInt(250000)))
}
