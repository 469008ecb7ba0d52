package navpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParent(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"docs", ""},
		{"docs/sub", "docs"},
		{"a/b/c", "a/b"},
		{"reports/2024/q1.pdf", "reports/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parent(tt.path))
		})
	}
}

func TestParent_ClimbsToRoot(t *testing.T) {
	p := "a/b/c/d"
	steps := 0
	for p != "" {
		p = Parent(p)
		steps++
	}
	assert.Equal(t, 4, steps)
}

func TestClean(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"/", ""},
		{"/docs/", "docs"},
		{"docs//sub", "docs/sub"},
		{"//a///b/", "a/b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Clean(tt.input), "Clean(%q)", tt.input)
	}
}

func TestBaseAndJoin(t *testing.T) {
	assert.Equal(t, "q1.pdf", Base("reports/q1.pdf"))
	assert.Equal(t, "reports", Base("reports"))
	assert.Equal(t, "", Base(""))

	assert.Equal(t, "docs", Join("", "docs"))
	assert.Equal(t, "docs/sub", Join("docs", "sub"))
	assert.Equal(t, "docs", Join("/docs/", ""))
	assert.True(t, IsRoot("/"))
	assert.False(t, IsRoot("docs"))
}

func TestBrowseURL(t *testing.T) {
	assert.Equal(t, "/download/abc", BrowseURL("abc", ""))
	assert.Equal(t, "/download/abc/docs/sub", BrowseURL("abc", "/docs/sub/"))
	assert.Equal(t, "/download/abc/my%20docs", BrowseURL("abc", "my docs"))
	assert.Equal(t, "/files/abc/reports/q1.pdf", FileURL("abc", "reports/q1.pdf"))
}

func TestRelative(t *testing.T) {
	base := BrowseBase("abc")

	tests := []struct {
		name     string
		location string
		path     string
		ok       bool
	}{
		{"base itself", "/download/abc", "", true},
		{"base with slash", "/download/abc/", "", true},
		{"nested", "/download/abc/docs/sub", "docs/sub", true},
		{"escaped", "/download/abc/my%20docs", "my docs", true},
		{"query ignored", "/download/abc/docs?x=1", "docs", true},
		{"full url", "https://example.com/download/abc/docs", "docs", true},
		{"other storage sharing prefix", "/download/abcdef/docs", "", false},
		{"file view", "/files/abc/docs/a.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := Relative(base, tt.location)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestParseRoute(t *testing.T) {
	route, err := ParseRoute("/download/abc/docs/sub")
	require.NoError(t, err)
	assert.Equal(t, Route{Kind: KindBrowse, StorageID: "abc", Path: "docs/sub"}, route)

	route, err = ParseRoute("/download/abc")
	require.NoError(t, err)
	assert.Equal(t, Route{Kind: KindBrowse, StorageID: "abc"}, route)

	route, err = ParseRoute("http://localhost:8000/files/abc/reports/q1%20final.pdf")
	require.NoError(t, err)
	assert.Equal(t, KindFile, route.Kind)
	assert.Equal(t, "reports/q1 final.pdf", route.Path)
	assert.Equal(t, "/files/abc/reports/q1%20final.pdf", route.Location())

	_, err = ParseRoute("/files/abc")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = ParseRoute("/settings/abc")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = ParseRoute("/")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  Route
	}{
		{"abc123", Route{Kind: KindBrowse, StorageID: "abc123"}},
		{" abc123/docs/sub/ ", Route{Kind: KindBrowse, StorageID: "abc123", Path: "docs/sub"}},
		{"/download/abc123/docs", Route{Kind: KindBrowse, StorageID: "abc123", Path: "docs"}},
		{"/files/abc123/reports/q1.pdf", Route{Kind: KindFile, StorageID: "abc123", Path: "reports/q1.pdf"}},
		{"https://drop.example.com/files/abc123/a%20b.txt", Route{Kind: KindFile, StorageID: "abc123", Path: "a b.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "   ", "/elsewhere/abc", "/files/abc"} {
		_, err := Resolve(bad)
		assert.ErrorIs(t, err, ErrUnknownRoute, bad)
	}
}
