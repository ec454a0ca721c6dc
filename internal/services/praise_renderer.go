package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math/rand/v2"
	"os"
	"path/filepath"
	"reactbot/internal/providers"
	"reactbot/internal/structures"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	praiseWidth      = 1080
	praiseHeight     = 1520
	praiseStartX     = 855
	praiseStartY     = 415
	praiseFontOffset = 4
	praiseColumnLen  = 9
	praiseColumns    = 4
	praiseMaxGlyphs  = praiseColumnLen * praiseColumns
)

type PraiseRendererInterface interface {
	Render(caption string) ([]byte, error)
}

type PraiseRenderer struct {
	backgroundDir string
	fontSize      int
	face          font.Face
	logger        providers.Logger
	pick          func(n int) int
}

func NewPraiseRenderer(conf *structures.Config, logger providers.Logger) PraiseRendererInterface {
	size := conf.Praise.FontSize
	if size <= 0 {
		size = 30
	}
	return &PraiseRenderer{
		backgroundDir: conf.Praise.BackgroundDir,
		fontSize:      size,
		face:          loadFace(conf.Praise.FontPath, size, logger),
		logger:        logger,
		pick:          rand.IntN,
	}
}

func loadFace(path string, size int, logger providers.Logger) font.Face {
	if path == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf(providers.TypeFeature, "Unable to read font %s: %s", path, err)
		return basicfont.Face7x13
	}

	f, err := opentype.Parse(data)
	if err != nil {
		collection, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			logger.Warnf(providers.TypeFeature, "Unable to parse font %s: %s", path, err)
			return basicfont.Face7x13
		}
		if f, err = collection.Font(0); err != nil {
			logger.Warnf(providers.TypeFeature, "Unable to load font %s: %s", path, err)
			return basicfont.Face7x13
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		logger.Warnf(providers.TypeFeature, "Unable to create font face: %s", err)
		return basicfont.Face7x13
	}
	return face
}

// PraiseColumns splits the caption into up to four columns of nine glyphs.
// The long vowel mark is swapped for a vertical bar so it reads correctly
// top to bottom.
func PraiseColumns(caption string) []string {
	caption = strings.ReplaceAll(caption, "ー", "┃")
	runes := []rune(caption)
	if len(runes) > praiseMaxGlyphs {
		runes = runes[:praiseMaxGlyphs]
	}

	columns := make([]string, 0, praiseColumns)
	for i := 0; i < len(runes); i += praiseColumnLen {
		end := min(i+praiseColumnLen, len(runes))
		columns = append(columns, string(runes[i:end]))
	}
	return columns
}

// Render draws the caption vertically, right to left, over a random
// background and returns a JPEG.
func (r *PraiseRenderer) Render(caption string) ([]byte, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, praiseWidth, praiseHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if bg, err := r.background(); err != nil {
		r.logger.Warnf(providers.TypeFeature, "Praise background skipped: %s", err)
	} else if bg != nil {
		draw.Draw(canvas, bg.Bounds(), bg, bg.Bounds().Min, draw.Src)
	}

	columns := PraiseColumns(caption)
	step := r.fontSize + praiseFontOffset
	startX := praiseStartX - step*(praiseColumns-len(columns))/2

	drawer := &font.Drawer{Dst: canvas, Src: image.NewUniform(color.Black), Face: r.face}
	ascent := r.face.Metrics().Ascent.Ceil()
	for i, column := range columns {
		x := startX - step*i
		for j, glyph := range []rune(column) {
			drawer.Dot = fixed.P(x, praiseStartY+ascent+step*j)
			drawer.DrawString(string(glyph))
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode praise image: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *PraiseRenderer) background() (image.Image, error) {
	if r.backgroundDir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(r.backgroundDir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".jpg") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, nil
	}

	f, err := os.Open(filepath.Join(r.backgroundDir, files[r.pick(len(files))]))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return jpeg.Decode(f)
}
