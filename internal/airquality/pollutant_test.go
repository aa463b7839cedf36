package airquality

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPollutant(t *testing.T) {
	p, ok := LookupPollutant(NO2)
	assert.True(t, ok)
	assert.Equal(t, "NO2", p.Formula)

	_, ok = LookupPollutant(99)
	assert.False(t, ok)
}

func TestPollutantsOrdered(t *testing.T) {
	list := Pollutants()
	assert.Len(t, list, len(pollutants))
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Code, list[i].Code)
	}
}

func TestPollutantByFormula(t *testing.T) {
	p, ok := PollutantByFormula("pm2.5")
	assert.True(t, ok)
	assert.Equal(t, PM25, p.Code)

	p, ok = PollutantByFormula("NO2")
	assert.True(t, ok)
	assert.Equal(t, NO2, p.Code)

	_, ok = PollutantByFormula("XYZ")
	assert.False(t, ok)
}
