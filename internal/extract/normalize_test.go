package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	in := "Balance   Sheet\n\n\n======\nAssets\t\t100\nPage 3 of 12\nLiabilities"
	out := Normalize(in)

	assert.NotContains(t, out, "===")
	assert.NotContains(t, out, "Page 3 of 12")
	assert.NotContains(t, out, "  ")
	assert.NotContains(t, out, "\n\n")
	assert.Contains(t, out, "Balance Sheet")
	assert.Contains(t, out, "Assets")
}

func TestNormalizeStripsControlChars(t *testing.T) {
	assert.Equal(t, "ab", Normalize("a\x00\x07b\x1b"))
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\n  "))
}

func TestExtractTxt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.txt")
	require.NoError(t, os.WriteFile(path, []byte("Loan   policy\n\nSection 1"), 0o644))

	res := New().Extract(path)
	assert.Equal(t, "Loan policy\nSection 1", res.Text)
	assert.Empty(t, res.Sheets)
}

func TestExtractCSVProducesSheet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "members.csv")
	require.NoError(t, os.WriteFile(path, []byte("Member Name,Dividend\nJane Wanjiku,1250\n"), 0o644))

	res := New().Extract(path)
	require.Len(t, res.Sheets, 1)
	assert.Equal(t, "members.csv", res.Sheets[0].Name)
	require.Len(t, res.Sheets[0].Rows, 2)
	assert.Equal(t, []string{"Jane Wanjiku", "1250"}, res.Sheets[0].Rows[1])
	assert.Contains(t, res.Text, "Member Name,Dividend")
}

// Unparseable or missing files are recovered as empty results, never
// errors.
func TestExtractFailuresAreEmpty(t *testing.T) {
	res := New().Extract("does-not-exist.pdf")
	assert.Empty(t, res.Text)

	res = New().Extract("unsupported.docx")
	assert.Empty(t, res.Text)
}
