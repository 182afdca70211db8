package api

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeList(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "  ", []string{}},
		{"json array", `["go", " sql ", ""]`, []string{"go", "sql"}},
		{"comma string", "go, sql,,docker ", []string{"go", "sql", "docker"}},
		{"broken json falls back to split", `["go", "sql"`, []string{`["go"`, `"sql"`}},
		{"single value", "go", []string{"go"}},
		{"numbers", `[1, 2.5]`, []string{"1", "2.5"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeList(tc.raw))
		})
	}
}

func TestFlexListShapes(t *testing.T) {
	var body struct {
		A flexList `json:"a"`
		B flexList `json:"b"`
		C flexList `json:"c"`
		D flexList `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":["x","y"],"b":"[\"x\",\"y\"]","c":"x, y","d":null}`), &body)
	require.NoError(t, err)
	assert.Equal(t, flexList{"x", "y"}, body.A)
	assert.Equal(t, flexList{"x", "y"}, body.B)
	assert.Equal(t, flexList{"x", "y"}, body.C)
	assert.Nil(t, body.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a":[{"k":1}]}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a":12}`), &body))
}

func TestFlexScalars(t *testing.T) {
	var body struct {
		B flexBool `json:"b"`
		N flexInt  `json:"n"`
		T flexTime `json:"t"`
		E flexBool `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"b":"true","n":"7","t":"2024-03-01","e":""}`), &body))
	assert.True(t, body.B.Or(false))
	assert.Equal(t, 7, body.N.Value)
	assert.Equal(t, 2024, body.T.Value.Year())
	assert.False(t, body.E.Set)
	assert.True(t, body.E.Or(true))
	assert.Nil(t, body.E.Ptr())

	assert.Error(t, json.Unmarshal([]byte(`{"b":"maybe"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"t":"yesterday"}`), &body))
}

func TestChallengeListRejectsMalformedJSON(t *testing.T) {
	var body struct {
		C challengeList `json:"technicalChallengesAndSolutions"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"technicalChallengesAndSolutions":"[{\"question\":\"q\",\"answer\":\"a\"}]"}`), &body))
	require.Len(t, body.C, 1)
	assert.Equal(t, "a", body.C[0].Answer)

	err := json.Unmarshal([]byte(`{"technicalChallengesAndSolutions":"[{oops"}`), &body)
	var fe *fieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "technicalChallengesAndSolutions", fe.field)
}

func FuzzNormalizeList(f *testing.F) {
	f.Add(`["a","b"]`)
	f.Add("a, b ,c")
	f.Add("")
	f.Add(`[1,"x",null]`)
	f.Add(`["unterminated`)
	f.Fuzz(func(t *testing.T, raw string) {
		out := normalizeList(raw)
		if out == nil {
			t.Fatal("normalizeList returned nil")
		}
		for _, item := range out {
			if item == "" || item != strings.TrimSpace(item) {
				t.Fatalf("item %q is empty or untrimmed", item)
			}
		}

		// A real array and a JSON string holding the array decode to the same items.
		if !utf8.ValidString(raw) {
			return
		}
		asArray, _ := json.Marshal(out)
		asString, _ := json.Marshal(string(asArray))
		for _, shape := range [][]byte{asArray, asString} {
			var l flexList
			if err := json.Unmarshal(shape, &l); err != nil {
				t.Fatalf("shape %s: %v", shape, err)
			}
			if len(l) != len(out) {
				t.Fatalf("shape %s decoded to %q, want %q", shape, l, out)
			}
			for i := range out {
				if l[i] != out[i] {
					t.Fatalf("shape %s decoded to %q, want %q", shape, l, out)
				}
			}
		}
	})
}
