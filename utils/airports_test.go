package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAirportCode(t *testing.T) {
	assert.Equal(t, "LAX", NormalizeAirportCode("KLAX"))
	assert.Equal(t, "JFK", NormalizeAirportCode(" jfk "))
	assert.Equal(t, "EGLL", NormalizeAirportCode("EGLL"))
	assert.Equal(t, "", NormalizeAirportCode(""))
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "Wednesday, 19 February from 20:00 to 22:00",
		CleanCell("\n\t Wednesday, 19 February\n   from 20:00  to 22:00 \n"))
	assert.Equal(t, "", CleanCell(" \n "))
}
