package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cricketflow/models"
)

func TestParseDismissalShapes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		kind     models.DismissalKind
		rendered string
	}{
		{
			name:     "bowled",
			text:     "Smith b Jones 45 (52b 6x4 1x6 78m) SR: 86.53",
			kind:     models.DismissalBowled,
			rendered: "Smith b Jones",
		},
		{
			name:     "caught",
			text:     "Smith c Brown b Jones 45 (52b 6x4 1x6 78m) SR: 86.53",
			kind:     models.DismissalCaught,
			rendered: "Smith c Brown b Jones",
		},
		{
			name:     "caught and bowled",
			text:     "Smith c & b Jones 45 (52b 6x4 1x6 78m) SR: 86.53",
			kind:     models.DismissalCaughtAndBowled,
			rendered: "Smith c and b Jones",
		},
		{
			name:     "lbw",
			text:     "Smith lbw b Jones 12 (30b 1x4 0x6) SR: 40.00",
			kind:     models.DismissalLBW,
			rendered: "Smith lbw b Jones",
		},
		{
			name:     "run out",
			text:     "Smith run out (Brown ) 12 (30b 1x4 0x6) SR: 40.00",
			kind:     models.DismissalRunOut,
			rendered: "Smith run out (Brown)",
		},
		{
			name:     "stumped",
			text:     "Smith st †Brown b Jones 8 (20b 0x4 0x6 25m) SR: 40.00",
			kind:     models.DismissalStumped,
			rendered: "Smith st Brown b Jones",
		},
		{
			name:     "hit wicket",
			text:     "Smith hit wicket b Jones 3 (10b 0x4 0x6) SR: 30.00",
			kind:     models.DismissalHitWicket,
			rendered: "Smith hit wicket b Jones",
		},
		{
			name:     "retired",
			text:     "Smith retired 20 (41b 2x4 0x6 60m) SR: 48.78",
			kind:     models.DismissalRetired,
			rendered: "Smith retired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDismissal(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, "Smith", d.Batter)
			assert.Equal(t, tt.rendered, d.String())
		})
	}
}

func TestParseDismissalStats(t *testing.T) {
	d, err := ParseDismissal("Smith c Brown b Jones 45 (52b 6x4 1x6 78m) SR: 86.53")
	require.NoError(t, err)

	assert.Equal(t, 45, d.Runs)
	assert.Equal(t, 52, d.Balls)
	assert.Equal(t, 6, d.Fours)
	assert.Equal(t, 1, d.Sixes)
	assert.Equal(t, 78, d.Minutes)
	assert.InDelta(t, 86.53, d.StrikeRate, 0.001)
	assert.Equal(t, "Brown", d.Fielder)
	assert.Equal(t, "Jones", d.Bowler)
}

func TestParseDismissalMinutesOptional(t *testing.T) {
	d, err := ParseDismissal("Smith b Jones 45 (52b 6x4 1x6) SR: 86.53")
	require.NoError(t, err)
	assert.Zero(t, d.Minutes)
	assert.Equal(t, 52, d.Balls)
}

func TestParseDismissalCaughtAndBowledPriority(t *testing.T) {
	// A caught-and-bowled line must never fall through to the plain bowled
	// shape, in any of the feed's ampersand spellings.
	for _, text := range []string{
		"Smith c & b Jones 45 (52b 6x4 1x6) SR: 86.53",
		"Smith c &amp; b Jones 45 (52b 6x4 1x6) SR: 86.53",
		"Smith c and b Jones 45 (52b 6x4 1x6) SR: 86.53",
	} {
		d, err := ParseDismissal(text)
		require.NoError(t, err, text)
		assert.Equal(t, models.DismissalCaughtAndBowled, d.Kind, text)
		assert.Equal(t, "Jones", d.Bowler, text)
	}
}

func TestParseDismissalMissingRuns(t *testing.T) {
	d, err := ParseDismissal("Batter Y b Bowler X (12b 1x4 0x6) SR: 33.33")
	require.NoError(t, err)
	assert.Equal(t, models.DismissalBowled, d.Kind)
	assert.Equal(t, "Batter Y", d.Batter)
	assert.Equal(t, "Bowler X", d.Bowler)
	assert.Equal(t, 12, d.Balls)
}

func TestParseDismissalStripsMarkers(t *testing.T) {
	d, err := ParseDismissal("†Smith (c) c †Brown b Jones 45 (52b 6x4 1x6) SR: 86.53")
	require.NoError(t, err)
	assert.Equal(t, "Smith", d.Batter)
	assert.Equal(t, "Brown", d.Fielder)
}

func TestParseDismissalMissingStatsFails(t *testing.T) {
	_, err := ParseDismissal("Smith b Jones 45")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedStats)
}

func TestParseDismissalUnknownShapeFails(t *testing.T) {
	_, err := ParseDismissal("absent hurt (0b 0x4 0x6) SR: 0.00")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownDismissal)
}

func TestParseDismissalCollapsesDoubledSpaces(t *testing.T) {
	d, err := ParseDismissal("Smith  c Brown  b Jones 45 (52b 6x4 1x6) SR: 86.53")
	require.NoError(t, err)
	assert.Equal(t, models.DismissalCaught, d.Kind)
	assert.Equal(t, "Brown", d.Fielder)
}
