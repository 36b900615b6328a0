package payload

import (
	"bytes"
	"errors"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []byte
		wantErr bool
	}{
		{name: "empty", content: "", want: []byte{}},
		{name: "padded one byte", content: "QQ==", want: []byte("A")},
		{name: "unpadded one byte", content: "QQ", want: []byte("A")},
		{name: "padded two bytes", content: "QUI=", want: []byte("AB")},
		{name: "unpadded two bytes", content: "QUI", want: []byte("AB")},
		{name: "no padding needed", content: "QUJD", want: []byte("ABC")},
		{name: "binary bytes", content: "/9j/4A==", want: []byte{0xFF, 0xD8, 0xFF, 0xE0}},
		{name: "partial padding", content: "QQ=", wantErr: true},
		{name: "excess padding", content: "QUJD====", wantErr: true},
		{name: "illegal character", content: "QU!D", wantErr: true},
		{name: "url safe alphabet", content: "_9j_4A==", wantErr: true},
		{name: "embedded newline", content: "QUJD\nQUJD", wantErr: true},
		{name: "data url prefix", content: "data:image/png;base64,QUJD", wantErr: true},
		{name: "non-zero trailing bits", content: "QR==", wantErr: true},
		{name: "single character", content: "Q", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Decode(%q) = %v, want error", tt.content, got)
				}
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Errorf("error %v does not wrap ErrInvalidEncoding", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) returned error: %v", tt.content, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
