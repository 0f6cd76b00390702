package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/equipment-rental/internal/httperr"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "UTC", Location("UTC").String())
}

func TestDateTruncatesToMidnightUTC(t *testing.T) {
	jkt := Location("Asia/Jakarta")
	in := time.Date(2024, 3, 9, 23, 30, 0, 0, jkt)

	got := Date(in)

	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2024-01-05", FormatDate(d))

	_, err = ParseDate("05/01/2024")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = ParseDate("")
	assert.Error(t, err)
}
