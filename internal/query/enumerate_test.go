package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompanyNames(t *testing.T) {
	names := CompanyNames(fixtureEvents())
	assert.Equal(t, []string{"Grocify", "LendFast", "PayQuick", "Shopmato"}, names)
}

func TestInvestorNames(t *testing.T) {
	names := InvestorNames(fixtureStakes())
	assert.Equal(t, []string{"Accel", "Matrix", "Tiger Global"}, names)
}

func TestYears(t *testing.T) {
	years := Years(fixtureEvents())
	assert.Equal(t, []int{2018, 2019, 2020}, years)
}

func TestEnumerationsEmpty(t *testing.T) {
	assert.Empty(t, CompanyNames(nil))
	assert.Empty(t, InvestorNames(nil))
	assert.Empty(t, Years(nil))
}
