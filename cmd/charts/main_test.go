package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gioscli/pkg/contracts/domain"
)

func TestResolveYears(t *testing.T) {
	monthly := []domain.MonthlyMean{
		{Year: 2016, Month: 1, City: "Warszawa", Station: "MzWarAlNiepo"},
		{Year: 2015, Month: 1, City: "Warszawa", Station: "MzWarAlNiepo"},
		{Year: 2015, Month: 2, City: "Warszawa", Station: "MzWarAlNiepo"},
	}

	// Explicit flag wins over the data and comes back ascending.
	years, err := resolveYears("2024,2015", monthly)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2024}, years)

	// Empty flag falls back to the distinct years in the data.
	years, err = resolveYears("", monthly)
	require.NoError(t, err)
	assert.Equal(t, []int{2015, 2016}, years)

	_, err = resolveYears("soon", monthly)
	assert.Error(t, err)

	_, err = resolveYears("", nil)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Warszawa", "Katowice"}, splitList("Warszawa, Katowice"))
	assert.Nil(t, splitList(" , "))
}
