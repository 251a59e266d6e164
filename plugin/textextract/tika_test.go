package textextract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitParagraphs(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"blank lines dropped", "a\n\nb\n", []string{"a", "b"}},
		{"whitespace trimmed", "  a  \n\t\nb", []string{"a", "b"}},
		{"windows line endings", "a\r\n\r\nb\r\n", []string{"a", "b"}},
		{"empty input", "", nil},
		{"only blanks", "\n \n\t\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitParagraphs(tt.input)
			if tt.expected == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tika", r.URL.Path)
		require.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("What is photosynthesis?\n\nName the capital of France.\n"))
	}))
	defer srv.Close()

	client := NewClient(&Config{TikaServerURL: srv.URL})
	paragraphs, err := client.ExtractParagraphs(context.Background(), []byte("fake docx"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)
	require.Equal(t, []string{"What is photosynthesis?", "Name the capital of France."}, paragraphs)
}

func TestExtractTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(&Config{TikaServerURL: srv.URL})
	_, err := client.ExtractText(context.Background(), []byte("doc"), "application/msword")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 500")
}

func TestIsSupported(t *testing.T) {
	require.True(t, IsSupported("application/vnd.openxmlformats-officedocument.wordprocessingml.document"))
	require.False(t, IsSupported("application/pdf"))
}
