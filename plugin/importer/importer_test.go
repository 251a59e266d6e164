package importer

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeExtractor struct {
	paragraphs []string
	err        error
}

func (f *fakeExtractor) ExtractParagraphs(_ context.Context, _ []byte, _ string) ([]string, error) {
	return f.paragraphs, f.err
}

func TestParseTxt(t *testing.T) {
	imp := New(nil)

	questions, err := imp.Parse(context.Background(), "questions.txt", []byte("a\n\nb\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, questions)
}

func TestParseTxtRejectsInvalidUTF8(t *testing.T) {
	imp := New(nil)

	_, err := imp.Parse(context.Background(), "questions.txt", []byte{0xff, 0xfe})
	require.Error(t, err)
}

func TestParseMd(t *testing.T) {
	imp := New(nil)

	questions, err := imp.Parse(context.Background(), "deck.md", []byte("q1\n\nq2\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q2"}, questions)
}

func TestParseDocx(t *testing.T) {
	imp := New(&fakeExtractor{paragraphs: []string{"q1", "q2"}})

	questions, err := imp.Parse(context.Background(), "deck.docx", []byte("binary"))
	require.NoError(t, err)
	require.Equal(t, []string{"q1", "q2"}, questions)
}

func TestParseDocxExtractorFailure(t *testing.T) {
	imp := New(&fakeExtractor{err: errors.New("tika down")})

	_, err := imp.Parse(context.Background(), "deck.docx", []byte("binary"))
	require.Error(t, err)
}

func TestParseUnsupportedExtension(t *testing.T) {
	imp := New(nil)

	_, err := imp.Parse(context.Background(), "deck.pdf", []byte("%PDF"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = imp.Parse(context.Background(), "noext", nil)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseExtensionCaseInsensitive(t *testing.T) {
	imp := New(nil)

	questions, err := imp.Parse(context.Background(), "UPPER.TXT", []byte("a\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, questions)
}
