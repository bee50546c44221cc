package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// isThumbnailable reports whether the decoder can open the format. RAW
// containers are excluded; their embedded previews are not worth the decode
// complexity here.
func isThumbnailable(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff", ".tif", ".webp":
		return true
	}
	return false
}

// generateThumbnail writes a resized copy capped at maxSize on the long edge.
func generateThumbnail(srcPath, destPath string, maxSize int) error {
	srcImg, err := imaging.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	bounds := srcImg.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var thumbWidth, thumbHeight int
	if width > height {
		thumbWidth = maxSize
		thumbHeight = int(float64(height) * float64(maxSize) / float64(width))
	} else {
		thumbHeight = maxSize
		thumbWidth = int(float64(width) * float64(maxSize) / float64(height))
	}

	thumbImg := imaging.Resize(srcImg, thumbWidth, thumbHeight, imaging.Lanczos)

	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	// JPEG for everything except PNG, which keeps transparency
	ext := strings.ToLower(filepath.Ext(destPath))
	if ext == ".png" {
		err = imaging.Save(thumbImg, destPath)
	} else {
		if ext != ".jpg" && ext != ".jpeg" {
			destPath = destPath[:len(destPath)-len(ext)] + ".jpg"
		}
		err = imaging.Save(thumbImg, destPath, imaging.JPEGQuality(85))
	}
	if err != nil {
		return fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return nil
}

// processThumbnail generates a thumbnail under outDir/.thumbnails and
// returns its path relative to outDir. Unsupported formats return "".
func processThumbnail(originalPath string, outDir string) (string, error) {
	if !isThumbnailable(originalPath) {
		return "", nil
	}

	baseThumbDir := filepath.Join(outDir, ".thumbnails")
	thumbPath := filepath.Join(baseThumbDir, filepath.Base(originalPath))

	ext := filepath.Ext(thumbPath)
	if ext != ".png" {
		thumbPath = thumbPath[:len(thumbPath)-len(ext)] + ".jpg"
	}

	if _, err := os.Stat(thumbPath); err == nil {
		if relThumbPath, err := filepath.Rel(outDir, thumbPath); err == nil {
			return filepath.ToSlash(relThumbPath), nil
		}
	}

	if err := generateThumbnail(originalPath, thumbPath, 200); err != nil {
		return "", fmt.Errorf("thumbnail generation failed for %s: %w", filepath.Base(originalPath), err)
	}

	if relThumbPath, err := filepath.Rel(outDir, thumbPath); err == nil {
		return filepath.ToSlash(relThumbPath), nil
	}
	return "", nil
}
