package testkit_test

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/pkg/testkit"
)

// echo answers /health and echoes POSTed JSON under "data".
var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/health":
		w.Write([]byte(`{"status":200,"data":{"status":"ok","uptime":12}}`)) //nolint:errcheck
	case r.URL.Path == "/echo" && r.Method == http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":201,"data":` + string(body) + `}`)) //nolint:errcheck
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":404}`)) //nolint:errcheck
	}
})

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunDir_InlineAndFileBodies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bodies"), 0o755))

	writeFile(t, dir, "01_health.json", `{
		"name": "health",
		"requestUrl": "/health",
		"expectedCode": 200,
		"responseBody": {"data": {"status": "ok"}}
	}`)
	writeFile(t, dir, "bodies/echo_req.json", `{"name":"Ana","tags":["a","b"]}`)
	writeFile(t, dir, "02_echo.json", `{
		"name": "echo",
		"requestMethod": "POST",
		"requestUrl": "/echo",
		"requestFileName": "bodies/echo_req.json",
		"expectedStatusCode": 201,
		"responseBody": {"data": {"name": "Ana", "tags": ["a", "b"]}}
	}`)
	writeFile(t, dir, "03_missing.json", `{
		"name": "missing",
		"requestUrl": "/nope",
		"expectedCode": 404,
		"responseContains": ["404"]
	}`)

	testkit.RunDir(t, echo, dir)
}

func TestLoadAllFromDir_SortedAndValidated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"name":"second","requestUrl":"/b","expectedCode":200}`)
	writeFile(t, dir, "a.json", `{"name":"first","requestUrl":"/a","expectedCode":200}`)
	writeFile(t, dir, "c.json", `{"name":"broken","expectedCode":200}`)

	scenarios, errs := testkit.LoadAllFromDir(dir)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
	assert.Equal(t, "GET", scenarios[0].RequestMethod)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "requestUrl is required")
}

func TestLoadScenario_ExclusiveBodies(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.json", `{
		"name": "x", "requestUrl": "/x", "expectedCode": 200,
		"requestBody": {"a": 1}, "requestFileName": "x_req.json"
	}`)

	_, err := testkit.LoadScenario(path)
	assert.ErrorContains(t, err, "exclusive")
}

func TestDiffJSON(t *testing.T) {
	decode := func(s string) any {
		var v any
		require.NoError(t, json.Unmarshal([]byte(s), &v))
		return v
	}

	t.Run("extra keys are ignored", func(t *testing.T) {
		diffs := testkit.DiffJSON("", decode(`{"a":1}`), decode(`{"a":1,"b":2}`))
		assert.Empty(t, diffs)
	})

	t.Run("missing keys and changed values are reported", func(t *testing.T) {
		diffs := testkit.DiffJSON("", decode(`{"a":1,"c":{"d":"x"}}`), decode(`{"c":{"d":"y"}}`))
		require.Len(t, diffs, 2)
		assert.Contains(t, diffs[0]+diffs[1], "a: missing in actual")
		assert.Contains(t, diffs[0]+diffs[1], "c.d")
	})

	t.Run("array length must match", func(t *testing.T) {
		diffs := testkit.DiffJSON("", decode(`[1,2]`), decode(`[1]`))
		require.Len(t, diffs, 1)
		assert.Contains(t, diffs[0], "array length")
	})

	t.Run("null matches null", func(t *testing.T) {
		assert.Empty(t, testkit.DiffJSON("", decode(`{"a":null}`), decode(`{"a":null}`)))
	})
}
