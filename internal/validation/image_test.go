package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		img     Image
		wantErr bool
	}{
		{
			name: "valid jpeg",
			img:  Image{Name: "pike.jpg", ContentType: "image/jpeg", Size: 1024},
		},
		{
			name: "valid png with parameters",
			img:  Image{Name: "trout.png", ContentType: "image/png; charset=binary", Size: 2048},
		},
		{
			name: "valid webp upper case",
			img:  Image{Name: "carp.webp", ContentType: "IMAGE/WEBP", Size: 10 * 1024 * 1024},
		},
		{
			name:    "too large",
			img:     Image{Name: "big.jpg", ContentType: "image/jpeg", Size: 10*1024*1024 + 1},
			wantErr: true,
			errMsg:  "exceeds the maximum size of 10 MiB",
		},
		{
			name:    "unsupported type",
			img:     Image{Name: "fish.gif", ContentType: "image/gif", Size: 100},
			wantErr: true,
			errMsg:  "not a valid image type",
		},
		{
			name:    "empty file",
			img:     Image{Name: "empty.jpg", ContentType: "image/jpeg", Size: 0},
			wantErr: true,
			errMsg:  "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(DefaultImageConfig, tt.img)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateImages(t *testing.T) {
	valid := Image{Name: "a.jpg", ContentType: "image/jpeg", Size: 10}

	assert.NoError(t, ValidateImages(DefaultImageConfig, []Image{valid, valid}))

	err := ValidateImages(DefaultImageConfig, nil)
	assert.ErrorContains(t, err, "no files")

	tooMany := []Image{valid, valid, valid, valid, valid, valid}
	err = ValidateImages(DefaultImageConfig, tooMany)
	assert.ErrorContains(t, err, "at most 5 images")

	err = ValidateImages(DefaultImageConfig, []Image{valid, {Name: "b.bmp", ContentType: "image/bmp", Size: 1}})
	assert.ErrorContains(t, err, "b.bmp")
}
