package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2024-01-15 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2024-02-30")
	assert.Error(t, err)
	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	instant := time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-04-01", FormatDate(DateOf(instant, loc)))
	assert.Equal(t, "2024-03-31", FormatDate(DateOf(instant, nil)))
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, time.February)
	assert.Equal(t, "2024-02-01", FormatDate(first))
	assert.Equal(t, "2024-02-29", FormatDate(last))

	first, last = MonthBounds(2023, time.December)
	assert.Equal(t, "2023-12-01", FormatDate(first))
	assert.Equal(t, "2023-12-31", FormatDate(last))
}

func TestParseMonth(t *testing.T) {
	year, month, err := ParseMonth("2024-07")
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, time.July, month)

	_, _, err = ParseMonth("2024-13")
	assert.Error(t, err)
}
