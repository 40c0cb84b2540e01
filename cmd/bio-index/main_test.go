package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosuite/bwamem/fmindex"
)

func TestBuildIndexWritesLoadableIndex(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "ref.fa")
	outPath := filepath.Join(dir, "ref.fm")
	require.NoError(t, os.WriteFile(refPath, []byte(">chr1\nACGTACGTACGTACGT\n"), 0644))

	ctx := context.Background()
	require.NoError(t, buildIndex(ctx, refPath, outPath))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	idx, err := fmindex.Load(f)
	require.NoError(t, err)
	require.Len(t, idx.Contigs, 1)
	assert.Equal(t, "chr1", idx.Contigs[0].Name)
	assert.Equal(t, uint32(16), idx.Contigs[0].Len)
}

func TestBuildIndexRejectsEmptyFasta(t *testing.T) {
	dir := t.TempDir()
	refPath := filepath.Join(dir, "empty.fa")
	outPath := filepath.Join(dir, "empty.fm")
	require.NoError(t, os.WriteFile(refPath, []byte(""), 0644))

	err := buildIndex(context.Background(), refPath, outPath)
	require.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, "/a/b/ref.fm", defaultOutputPath("/a/b/ref.fa"))
	assert.Equal(t, "/a/b/ref.fm", defaultOutputPath("/a/b/ref.fasta"))
}
