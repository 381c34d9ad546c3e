// Package camera reads webcam frames and prepares them for recognition.
//
// Frames come from a still image that an external grabber keeps
// overwriting, for example:
//
//	ffmpeg -f v4l2 -video_size 640x480 -i /dev/video0 -update 1 -y /tmp/frame.jpg
package camera

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrUnavailable means no camera frames can be read.
var ErrUnavailable = errors.New("camera unavailable")

// Source yields the most recent camera frame.
type Source interface {
	Frame() (image.Image, error)
}

// FileSource reads frames from an image file on disk.
type FileSource struct {
	path string
}

// Open checks that the frame file exists. Failure wraps ErrUnavailable.
func Open(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no frame path configured", ErrUnavailable)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, path)
	}
	return &FileSource{path: path}, nil
}

// Path returns the frame file location.
func (s *FileSource) Path() string { return s.path }

// Frame decodes the current contents of the frame file.
func (s *FileSource) Frame() (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", s.path, err)
	}
	return img, nil
}

// Encode scales img to width x height and compresses it as JPEG.
func Encode(img image.Image, width, height, quality int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
