package main

import (
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"jvanrhyn.dev/disklayers/internal/layout"
)

func humanBytes(b int64) string {
	if b < 0 {
		return "?"
	}
	return humanize.IBytes(uint64(b))
}

var fileIcons = map[string]string{
	"folder":  "📁",
	".pdf":    "📄",
	".xls":    "📊",
	".xlsx":   "📊",
	".csv":    "📑",
	".txt":    "📄",
	".go":     "🟦",
	".md":     "📝",
	".png":    "🖼️",
	".jpg":    "🖼️",
	".zip":    "📦",
	".zst":    "📦",
	".gz":     "📦",
	".db":     "🗄️",
	"default": "📄",
}

func iconFor(name string, kind layout.Kind) string {
	if kind == layout.Folder {
		return fileIcons["folder"]
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if ic, ok := fileIcons[ext]; ok {
			return ic
		}
	}
	return fileIcons["default"]
}

// bar draws a share p in [0,1] as a block bar of width cells.
func bar(p float64, width int) string {
	if width <= 0 {
		width = 10
	}
	fill := int(p * float64(width))
	fill = max(0, min(fill, width))
	return strings.Repeat("█", fill) + strings.Repeat("░", width-fill)
}
