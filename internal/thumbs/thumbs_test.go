package thumbs

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "ref-1:0", CacheKey("ref-1", 0))
	assert.Equal(t, "ref-1:270", CacheKey("ref-1", 270))
	assert.NotEqual(t, CacheKey("ref-1", 90), CacheKey("ref-1", 180), "rotation must be part of the key")
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("jpeg bytes")))
	data, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg bytes"), data)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache(10 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v")))
	time.Sleep(25 * time.Millisecond)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCachePurge(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1")))
	require.NoError(t, c.Set(ctx, "b", []byte("2")))

	c.Purge()
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
}

// gradient makes a 3x2 image with a unique color per pixel so rotation
// tests can track where each pixel lands.
func gradient() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{R: uint8(10*x + 1), G: uint8(10*y + 1), A: 255})
		}
	}
	return img
}

func TestRotateQuarterDimensions(t *testing.T) {
	src := gradient()
	tests := []struct {
		rotation int
		w, h     int
	}{
		{0, 3, 2},
		{90, 2, 3},
		{180, 3, 2},
		{270, 2, 3},
		{360, 3, 2},
		{-90, 2, 3},
	}
	for _, tt := range tests {
		got := rotateQuarter(src, tt.rotation)
		b := got.Bounds()
		assert.Equal(t, tt.w, b.Dx(), "rotation %d width", tt.rotation)
		assert.Equal(t, tt.h, b.Dy(), "rotation %d height", tt.rotation)
	}
}

func TestRotateQuarterMovesPixels(t *testing.T) {
	src := gradient()
	topLeft := src.At(0, 0)

	// Clockwise 90: the top-left pixel ends up at the top-right.
	r90 := rotateQuarter(src, 90)
	assert.Equal(t, topLeft, r90.At(r90.Bounds().Dx()-1, 0))

	// 180: it ends up at the bottom-right.
	r180 := rotateQuarter(src, 180)
	assert.Equal(t, topLeft, r180.At(r180.Bounds().Dx()-1, r180.Bounds().Dy()-1))

	// Counter-clockwise (270 clockwise): bottom-left.
	r270 := rotateQuarter(src, 270)
	assert.Equal(t, topLeft, r270.At(0, r270.Bounds().Dy()-1))

	// Four quarter turns compose back to the identity.
	full := rotateQuarter(rotateQuarter(rotateQuarter(rotateQuarter(src, 90), 90), 90), 90)
	assert.Equal(t, topLeft, full.At(0, 0))
}

func TestRendererRejectsGarbage(t *testing.T) {
	r := NewRenderer(72, 80)
	_, err := r.Render([]byte("not a pdf"), 0, 0)
	assert.Error(t, err)
}
