package ui

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// LoadFace parses a TTF file into a font face for label text. With no
// path the builtin bitmap face is returned: small, but always there.
func LoadFace(path string, size float64) (font.Face, error) {
	if path == "" {
		return basicfont.Face7x13, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font file: %w", err)
	}

	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font file: %w", err)
	}

	return truetype.NewFace(parsed, &truetype.Options{Size: size}), nil
}
