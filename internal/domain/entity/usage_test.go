package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUsage_ReachesLimit(t *testing.T) {
	u := &Usage{DataHome: decimal.RequireFromString("7.5"), DataRoaming: decimal.RequireFromString("2.5")}

	assert.True(t, u.ReachesLimit(decimal.NewFromInt(10)), "10 GB consumidos alcanzan un límite de 10")
	assert.False(t, u.ReachesLimit(decimal.NewFromInt(11)))
	assert.False(t, u.ReachesLimit(decimal.Zero), "límite 0 significa sin límite")
}
