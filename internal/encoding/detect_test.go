package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/tronghieu/ezlib-sub005/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("edition_id;location\n"))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}{
		{
			name:        "UTF8Passthrough",
			input:       []byte("edition_id;location\nx;Salle d'étude\n"),
			want:        "edition_id;location\nx;Salle d'étude\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("location\nÉtage 2\n")...),
			want:        "location\nÉtage 2\n",
			wantCharset: encoding.UTF8,
		},
		{
			// "Bibliothèque" with è = 0xE8 in windows-1252.
			name:  "Windows1252",
			input: []byte{'B', 'i', 'b', 'l', 'i', 'o', 't', 'h', 0xE8, 'q', 'u', 'e', '\n'},
			want:  "Bibliothèque\n",
		},
		{
			name:        "UTF16LE",
			input:       utf16,
			want:        "edition_id;location\n",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := readAll(t, tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantCharset == "" {
				assert.NotEqual(t, encoding.UTF8, charset)
				return
			}
			assert.Equal(t, tt.wantCharset, charset)
		})
	}
}
