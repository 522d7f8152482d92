package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPresetsValidate(t *testing.T) {
	for name, f := range formatNames {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, f.Validate())
			assert.Equal(t, name, f.String())
		})
	}
}

func TestFormatValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
	}{
		{
			name:   "integer bits too low",
			format: Format{Family: FamilyGray, Bits: 7, Sample: SampleInteger},
		},
		{
			name:   "integer bits too high",
			format: Format{Family: FamilyYUV, Bits: 17, Sample: SampleInteger},
		},
		{
			name:   "float with integer depth",
			format: Format{Family: FamilyGray, Bits: 16, Sample: SampleFloat},
		},
		{
			name:   "subsampled RGB",
			format: Format{Family: FamilyRGB, Bits: 8, Sample: SampleInteger, SubsampleW: 1},
		},
		{
			name:   "subsampled gray",
			format: Format{Family: FamilyGray, Bits: 8, Sample: SampleInteger, SubsampleH: 1},
		},
		{
			name:   "subsample factor out of range",
			format: Format{Family: FamilyYUV, Bits: 8, Sample: SampleInteger, SubsampleW: 2},
		},
		{
			name:   "unknown family",
			format: Format{Family: Family(9), Bits: 8, Sample: SampleInteger},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.format.Validate()
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YUV420P10")
	require.NoError(t, err)
	assert.Equal(t, YUV420P10, f)

	_, err = ParseFormat("YUV420P9")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestFormatPlaneGeometry(t *testing.T) {
	tests := []struct {
		name           string
		format         Format
		planes         int
		bytesPerSample int
		chromaW        int
		chromaH        int
	}{
		{"Gray8", Gray8, 1, 1, 0, 0},
		{"Gray16", Gray16, 1, 2, 0, 0},
		{"GrayFloat", GrayFloat, 1, 4, 0, 0},
		{"YUV420P8", YUV420P8, 3, 1, 320, 240},
		{"YUV420P10", YUV420P10, 3, 2, 320, 240},
		{"YUV422P10", YUV422P10, 3, 2, 320, 480},
		{"YUV444P12", YUV444P12, 3, 2, 640, 480},
		{"RGB24", RGB24, 3, 1, 640, 480},
		{"RGBFloat", RGBFloat, 3, 4, 640, 480},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.planes, tt.format.Planes())
			assert.Equal(t, tt.bytesPerSample, tt.format.BytesPerSample())
			if tt.planes == 3 {
				w, h := tt.format.PlaneDims(1, 640, 480)
				assert.Equal(t, tt.chromaW, w)
				assert.Equal(t, tt.chromaH, h)
			}
		})
	}
}

func TestFormatNeutralChroma(t *testing.T) {
	assert.Equal(t, 128.0, YUV420P8.NeutralChroma())
	assert.Equal(t, 512.0, YUV422P10.NeutralChroma())
	assert.Equal(t, 2048.0, YUV444P12.NeutralChroma())
	assert.Equal(t, 0.0, YUV444PF.NeutralChroma())
}

func TestFormatMaxValue(t *testing.T) {
	assert.Equal(t, 255, Gray8.MaxValue())
	assert.Equal(t, 1023, YUV420P10.MaxValue())
	assert.Equal(t, 65535, Gray16.MaxValue())
}
