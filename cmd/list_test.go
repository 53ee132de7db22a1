package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minicloud/config"
	"minicloud/internal/models"
)

func TestListCommand(t *testing.T) {
	newFakeCloud(t, "a.txt", "b.pdf")

	res := execute(t, "", "list")
	require.NoError(t, res.err)

	out := decode[models.ListResult](t, res.stdout)
	assert.Equal(t, []string{"a.txt", "b.pdf"}, out.Files)
	assert.Equal(t, 2, out.TotalFiles)
	assert.NotEmpty(t, out.OperationTime)
	assert.Empty(t, res.stderr)
}

func TestListCommandFailure(t *testing.T) {
	fc := newFakeCloud(t, "a.txt")
	fc.failList = true

	res := execute(t, "", "list")
	require.ErrorIs(t, res.err, ErrReported)

	out := decode[models.ErrorResponse](t, res.stdout)
	assert.Equal(t, "list", out.Command)
	assert.Contains(t, out.Error, "listing failed")
	assert.Contains(t, res.stderr, "[error] Could not fetch the file list")
}

func TestRootRejectsUnknownBackend(t *testing.T) {
	newFakeCloud(t)

	res := execute(t, "", "list", "--backend", "ftp")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, config.ErrUnknownBackend)
	assert.NotErrorIs(t, res.err, ErrReported)
}

func TestRootRequiresBucketForS3(t *testing.T) {
	newFakeCloud(t)
	t.Setenv("MINICLOUD_S3_BUCKET_NAME", "")
	t.Setenv("BUCKET_NAME", "")

	res := execute(t, "", "list", "--backend", "S3")
	assert.ErrorIs(t, res.err, config.ErrNoBucket)
}
