package analysis

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDecodeResult_DiscardsExcludedFields(t *testing.T) {
	body := []byte(`{
		"homeTeam": {"score": 85, "name": "Lakers", "fouls": 4, "timeouts": 2},
		"awayTeam": {"score": 78},
		"confidence": 0.95
	}`)

	res, err := decodeResult(body)
	require.NoError(t, err)

	require.NotNil(t, res.HomeTeam)
	require.NotNil(t, res.HomeTeam.Score)
	assert.Equal(t, 85, *res.HomeTeam.Score)
	require.NotNil(t, res.AwayTeam)
	assert.Equal(t, 78, *res.AwayTeam.Score)
	assert.Equal(t, 0.95, res.Confidence)

	// The name supplied upstream must be absent from the decoded result.
	assert.NotContains(t, string(mustJSON(t, res)), "Lakers")
}

func TestDecodeResult_SemanticallyEmptyPayload(t *testing.T) {
	res, err := decodeResult([]byte(`{"confidence": 0.4}`))
	require.NoError(t, err)

	assert.Nil(t, res.HomeTeam)
	assert.Nil(t, res.AwayTeam)
	assert.Nil(t, res.Period)
	assert.Nil(t, res.Clock)
	assert.Nil(t, res.Notes)
	assert.Equal(t, 0.4, res.Confidence)
}

func TestDecodeResult_FullPayload(t *testing.T) {
	body := []byte(`{
		"homeTeam": {"score": 101},
		"awayTeam": {"score": 99},
		"period": 4,
		"clock": "2:31",
		"confidence": 0.87,
		"notes": "overtime likely"
	}`)

	res, err := decodeResult(body)
	require.NoError(t, err)
	assert.Equal(t, 4, *res.Period)
	assert.Equal(t, "2:31", *res.Clock)
	assert.Equal(t, "overtime likely", *res.Notes)
}

func TestDecodeResult_InvalidJSON(t *testing.T) {
	_, err := decodeResult([]byte(`{"confidence": `))
	assert.ErrorIs(t, err, ErrInvalidResponseShape)

	_, err = decodeResult([]byte(`not json at all`))
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
}

func TestDecodeResult_ConfidenceContract(t *testing.T) {
	_, err := decodeResult([]byte(`{"homeTeam":{"score":1}}`))
	assert.ErrorIs(t, err, ErrParsing, "missing confidence")

	_, err = decodeResult([]byte(`{"confidence": 1.2}`))
	assert.ErrorIs(t, err, ErrParsing, "confidence above 1")

	_, err = decodeResult([]byte(`{"confidence": -0.1}`))
	assert.ErrorIs(t, err, ErrParsing, "negative confidence")

	res, err := decodeResult([]byte(`{"confidence": 1}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestDecodeResult_SanitizesFreeText(t *testing.T) {
	body := []byte(`{"confidence": 0.9, "notes": "<script>alert('x')</script>", "clock": "\"12:00\""}`)

	res, err := decodeResult(body)
	require.NoError(t, err)
	require.NotNil(t, res.Notes)
	assert.NotContains(t, *res.Notes, "<")
	assert.NotContains(t, *res.Notes, "'")
	assert.Equal(t, "12:00", *res.Clock)
}

func TestDecodeResult_TruncatesOversizedNotes(t *testing.T) {
	long := strings.Repeat("a", 5000)
	res, err := decodeResult([]byte(`{"confidence": 0.5, "notes": "` + long + `"}`))
	require.NoError(t, err)
	require.NotNil(t, res.Notes)
	assert.Len(t, *res.Notes, 1000)
}
