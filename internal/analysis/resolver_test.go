package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestResolve_FencedBlock(t *testing.T) {
	gm := groundingMetadata("op.gg", "u.gg")

	rec, citations := Resolve(fenced(validRecord), gm)
	require.NotNil(t, rec)

	assert.Equal(t, "Darius", rec.Champion)
	assert.Equal(t, "Aatrox", rec.Opponent)
	assert.Equal(t, "top", rec.Role)
	assert.Equal(t, "14.1", rec.Patch)
	assert.Equal(t, "52%", rec.WinRatePrediction)
	assert.Equal(t, "Conqueror", rec.Runes.Keystone)
	assert.Len(t, rec.Runes.PrimaryTree, 3)
	assert.Equal(t, []BuildEntry{{Name: "Doran's Blade", Reason: "+8 AD, 2.5% omnivamp"}}, rec.Build.Starting)
	assert.Equal(t, []string{"Q", "E", "W"}, rec.Skills.MaxOrder)
	assert.NotEmpty(t, rec.MathAnalysis.TradingPattern)

	wantCurve := []PowerPoint{{0, 55, 50}, {5, 62, 52}, {10, 60, 58}}
	if diff := cmp.Diff(wantCurve, rec.PowerCurve); diff != "" {
		t.Errorf("power curve mismatch (-want +got):\n%s", diff)
	}

	want := []Citation{
		{Title: "op.gg", URL: "https://op.gg/page"},
		{Title: "u.gg", URL: "https://u.gg/page"},
	}
	if diff := cmp.Diff(want, citations); diff != "" {
		t.Errorf("citations mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_FenceLabelIsCaseInsensitive(t *testing.T) {
	raw := "```JSON\n" + validRecord + "\n```"
	rec, citations := Resolve(raw, nil)
	require.NotNil(t, rec)
	assert.Equal(t, "Darius", rec.Champion)
	assert.Empty(t, citations)
	assert.NotNil(t, citations)
}

func TestResolve_MalformedFenceFallsBackToLooseObject(t *testing.T) {
	raw := "Draft:\n```json\nchampion: Darius, role: top\n```\nFinal answer follows.\n" + validRecord

	_, ok := FencedBlock(raw)
	require.True(t, ok)

	rec, _ := Resolve(raw, nil)
	require.NotNil(t, rec, "the widest-object stage should recover the record")
	assert.Equal(t, "Aatrox", rec.Opponent)
}

func TestResolve_UnfencedObject(t *testing.T) {
	rec, _ := Resolve("Sure! "+validRecord+" Hope this helps.", nil)
	require.NotNil(t, rec)
	assert.Equal(t, "Darius", rec.Champion)
}

func TestResolve_NoJSONKeepsCitations(t *testing.T) {
	gm := groundingMetadata("leagueoflegends.com")

	rec, citations := Resolve("I could not find enough data for this matchup.", gm)
	assert.Nil(t, rec)
	require.Len(t, citations, 1)
	assert.Equal(t, "https://leagueoflegends.com/page", citations[0].URL)
}

func TestResolve_MissingRequiredKey(t *testing.T) {
	for _, key := range RequiredKeys {
		t.Run(key, func(t *testing.T) {
			rec, _ := Resolve(fenced(withoutKey(key)), nil)
			assert.Nil(t, rec)
		})
	}
}

func TestResolve_NullRequiredKey(t *testing.T) {
	rec, _ := Resolve(fenced(withKey("mathAnalysis", nil)), nil)
	assert.Nil(t, rec)
}

func TestResolve_TypeMismatch(t *testing.T) {
	rec, _ := Resolve(fenced(withKey("powerCurve", "rising")), nil)
	assert.Nil(t, rec)
}

func TestResolve_LooseScalars(t *testing.T) {
	t.Run("numeric text fields", func(t *testing.T) {
		rec, _ := Resolve(fenced(withKey("winRatePrediction", 52)), nil)
		require.NotNil(t, rec)
		assert.Equal(t, "52", rec.WinRatePrediction)

		rec, _ = Resolve(fenced(withKey("patch", 14.1)), nil)
		require.NotNil(t, rec)
		assert.Equal(t, "14.1", rec.Patch)
	})

	t.Run("numeric strings in the power curve", func(t *testing.T) {
		curve := []map[string]any{{"time": "0", "myPower": "55", "enemyPower": "45%"}, {"time": 5, "myPower": 60, "enemyPower": 50}}
		rec, _ := Resolve(fenced(withKey("powerCurve", curve)), nil)
		require.NotNil(t, rec)
		assert.Equal(t, []PowerPoint{{0, 55, 45}, {5, 60, 50}}, rec.PowerCurve)
	})

	t.Run("non-numeric power is still rejected", func(t *testing.T) {
		curve := []map[string]any{{"time": "early", "myPower": 55, "enemyPower": 45}}
		_, err := Extract(fenced(withKey("powerCurve", curve)))
		var ee *ExtractionError
		require.ErrorAs(t, err, &ee)
		assert.Equal(t, StageValidate, ee.Stage)
	})

	t.Run("object text field is still rejected", func(t *testing.T) {
		rec, _ := Resolve(fenced(withKey("champion", map[string]any{"name": "Darius"})), nil)
		assert.Nil(t, rec)
	})
}

func TestResolveWithError(t *testing.T) {
	rec, citations, err := ResolveWithError(fenced(validRecord), groundingMetadata("op.gg"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Len(t, citations, 1)

	rec, citations, err = ResolveWithError("no record", groundingMetadata("op.gg", "u.gg"))
	assert.Nil(t, rec)
	assert.Len(t, citations, 2)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.ErrorIs(t, err, ErrNoObject)
}

func TestResolve_ExtraKeysAreIgnored(t *testing.T) {
	rec, _ := Resolve(fenced(withKey("notes", "bring ignite")), nil)
	require.NotNil(t, rec)
	assert.Equal(t, "Darius", rec.Champion)
}

func TestResolveJSON(t *testing.T) {
	meta := []byte(`{"groundingChunks": [
		{"web": {"uri": "https://op.gg/darius", "title": "OP.GG"}},
		{"retrievedContext": {"uri": "gs://bucket/doc"}},
		{"web": {"uri": "https://u.gg/darius", "title": "U.GG"}}
	]}`)

	rec, citations := ResolveJSON(fenced(validRecord), meta)
	require.NotNil(t, rec)
	assert.Equal(t, []Citation{
		{Title: "OP.GG", URL: "https://op.gg/darius"},
		{Title: "U.GG", URL: "https://u.gg/darius"},
	}, citations)

	rec, citations = ResolveJSON("nothing here", []byte("{not json"))
	assert.Nil(t, rec)
	assert.NotNil(t, citations)
	assert.Empty(t, citations)
}

func TestCitations(t *testing.T) {
	t.Run("nil metadata", func(t *testing.T) {
		got := Citations(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("nil and non-web chunks are skipped", func(t *testing.T) {
		gm := &genai.GroundingMetadata{GroundingChunks: []*genai.GroundingChunk{
			nil,
			{},
			{Web: &genai.GroundingChunkWeb{Title: "wiki", URI: "https://wiki.leagueoflegends.com"}},
		}}
		assert.Equal(t, []Citation{{Title: "wiki", URL: "https://wiki.leagueoflegends.com"}}, Citations(gm))
	})

	t.Run("empty json", func(t *testing.T) {
		assert.Empty(t, CitationsFromJSON(nil))
		assert.Empty(t, CitationsFromJSON([]byte("null")))
		assert.Empty(t, CitationsFromJSON([]byte(`{"groundingChunks": "oops"}`)))
	})
}
