package transform_test

import (
	"testing"

	"sigantara/file-api/transform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	cases := []struct {
		mime string
		want transform.Category
	}{
		{"image/png", transform.CategoryImage},
		{"image/jpeg", transform.CategoryImage},
		{"image/webp", transform.CategoryImage},
		{"application/pdf", transform.CategoryPDF},
		{"application/zip", transform.CategoryArchive},
		{"application/x-rar-compressed", transform.CategoryArchive},
		{"text/plain", transform.CategoryOther},
		{"video/mp4", transform.CategoryOther},
		{"", transform.CategoryOther},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, transform.Categorize(c.mime), "mime %q", c.mime)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := transform.NewRegistry(2560, 80)

	assert.NotNil(t, reg.Lookup("image/png"))
	assert.NotNil(t, reg.Lookup("application/pdf"))
	assert.NotNil(t, reg.Lookup("application/zip"))
	assert.Nil(t, reg.Lookup("text/plain"))
	assert.Nil(t, reg.Lookup("video/mp4"))
}

func TestPDFAndArchiveDecline(t *testing.T) {
	reg := transform.NewRegistry(2560, 80)

	for _, mime := range []string{"application/pdf", "application/zip"} {
		tr := reg.Lookup(mime)
		require.NotNil(t, tr)

		res, err := tr.Apply([]byte("whatever"))
		assert.NoError(t, err)
		assert.Nil(t, res, "transform for %q should decline", mime)
	}
}
