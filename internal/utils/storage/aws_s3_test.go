package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		allow   []string
		want    string
		wantErr error
	}{
		{name: "png allowed", data: pngHeader, allow: AllowImage, want: "image/png"},
		{name: "text rejected", data: []byte("just some notes"), allow: AllowImage, wantErr: ErrFileTypeNotAllowed},
		{name: "anything without allow list", data: []byte("just some notes"), want: "text/plain; charset=utf-8"},
		{name: "empty", data: nil, allow: AllowImage, wantErr: ErrEmptyFile},
		{name: "too large", data: bytes.Repeat([]byte{'a'}, MaxUploadSize+1), wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mtype, err := DetectType(tt.data, tt.allow...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mtype.String())
		})
	}
}

func TestPublicLinkRoundTrip(t *testing.T) {
	s := &awsS3{bucket: "recipes", region: "ap-southeast-1"}

	link := s.GetPublicLinkKey("avatars/google_avatar_42.png")
	assert.Equal(t, "https://recipes.s3.ap-southeast-1.amazonaws.com/avatars/google_avatar_42.png", link)
	assert.Equal(t, "avatars/google_avatar_42.png", s.GetObjectKeyFromLink(link))

	assert.Empty(t, s.GetObjectKeyFromLink("https://lh3.googleusercontent.com/a/photo.jpg"))
}
