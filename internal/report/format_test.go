package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nghood/eventgraph/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `{"events": {
	"flood":    {"id":"flood","title":"The Flood","parent_id":null,"attributes":{"order":["2"]}},
	"creation": {"id":"creation","title":"Creation","parent_id":null,"attributes":{"order":["1"],"reference":["Genesis 1"]}},
	"eden":     {"id":"eden","title":"Garden of Eden","parent_id":"creation","attributes":{"order":["1"]}},
	"rivers":   {"id":"rivers","title":"Four Rivers","parent_id":"eden","attributes":{}}
}}`

func buildForest(t *testing.T, doc string) *manifest.Forest {
	t.Helper()
	v, err := manifest.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	f, res := manifest.Build(v)
	require.True(t, res.Valid(), "errors: %v", res.ErrorMessages())
	return f
}

func TestParseOutputFormat(t *testing.T) {
	f, err := ParseOutputFormat("default")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatDefault, f)

	f, err = ParseOutputFormat("json")
	require.NoError(t, err)
	assert.Equal(t, OutputFormatJSON, f)

	_, err = ParseOutputFormat("table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format: table")
}

func TestPassed(t *testing.T) {
	warning := manifest.Issue{Kind: manifest.KindOrder, Message: "w"}
	failure := manifest.Issue{Kind: manifest.KindSchema, Message: "e"}

	assert.True(t, Passed(manifest.Result{}, false))
	assert.True(t, Passed(manifest.Result{Warnings: []manifest.Issue{warning}}, false))
	assert.False(t, Passed(manifest.Result{Warnings: []manifest.Issue{warning}}, true))
	assert.False(t, Passed(manifest.Result{Errors: []manifest.Issue{failure}}, false))
	assert.True(t, Passed(manifest.Result{}, true))
}

func TestFormatResultJSON(t *testing.T) {
	res := manifest.Result{
		Errors: []manifest.Issue{{
			Kind:    manifest.KindReference,
			Event:   "a",
			Message: `events.a.parent_id references missing event "ghost".`,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatResultJSON(&buf, "events.json", res, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "events.json", decoded["manifest"])
	assert.Equal(t, false, decoded["valid"])
	assert.NotContains(t, decoded, "strict")
	assert.Equal(t, []any{}, decoded["warnings"])

	errs := decoded["errors"].([]any)
	require.Len(t, errs, 1)
	first := errs[0].(map[string]any)
	assert.Equal(t, "reference", first["kind"])
	assert.Equal(t, "a", first["event"])
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
}

func TestFormatResultJSON_Strict(t *testing.T) {
	res := manifest.Result{
		Errors:   []manifest.Issue{},
		Warnings: []manifest.Issue{{Kind: manifest.KindOrder, Event: "b", Message: "missing order"}},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatResultJSON(&buf, "events.json", res, true))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, false, decoded["valid"])
	assert.Equal(t, true, decoded["strict"])
}

func TestFormatOutline(t *testing.T) {
	f := buildForest(t, sampleManifest)

	var buf bytes.Buffer
	count, err := FormatOutline(&buf, f)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, `[1] Creation (creation)
  [1] Garden of Eden (eden)
    [-] Four Rivers (rivers)
[2] The Flood (flood)

4 events
`, buf.String())
}

func TestFormatOutline_SingleEvent(t *testing.T) {
	f := buildForest(t, `{"events": {"a": {"id":"a","title":"A","parent_id":null,"attributes":{"order":["1"]}}}}`)

	var buf bytes.Buffer
	count, err := FormatOutline(&buf, f)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, strings.HasSuffix(buf.String(), "\n1 event\n"))
}

// summaryFailWriter accepts outline lines and rejects the trailing summary.
type summaryFailWriter struct {
	bytes.Buffer
}

func (w *summaryFailWriter) Write(p []byte) (int, error) {
	if bytes.HasPrefix(p, []byte("\n")) {
		return 0, errors.New("disk full")
	}
	return w.Buffer.Write(p)
}

func TestFormatOutline_WriteError(t *testing.T) {
	f := buildForest(t, sampleManifest)

	w := &summaryFailWriter{}
	count, err := FormatOutline(w, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 4, count)
	assert.Contains(t, w.String(), "(flood)")
}

func TestFormatOutlineJSON(t *testing.T) {
	f := buildForest(t, sampleManifest)

	var buf bytes.Buffer
	require.NoError(t, FormatOutlineJSON(&buf, f))

	var roots []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &roots))
	require.Len(t, roots, 2)
	assert.Equal(t, "creation", roots[0]["id"])
	assert.Equal(t, "1", roots[0]["order"])
	assert.Equal(t, "flood", roots[1]["id"])
	assert.Equal(t, []any{}, roots[1]["children"])

	eden := roots[0]["children"].([]any)[0].(map[string]any)
	assert.Equal(t, "Garden of Eden", eden["title"])
	rivers := eden["children"].([]any)[0].(map[string]any)
	assert.NotContains(t, rivers, "order")
	assert.NotContains(t, rivers, "attributes")
}
