package menu

import "github.com/Diva-jaw/Frontend--sub001/core/catalog"

// Badge is one clickable entry of the level columns.
type Badge struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// Columns splits `levels` into two columns of badges, the left one taking the extra badge when
// the count is odd. Paths are passed through untouched.
func Columns(levels []catalog.Level) (left, right []Badge) {
	half := (len(levels) + 1) / 2
	left = make([]Badge, 0, half)
	right = make([]Badge, 0, len(levels)-half)
	for i, lvl := range levels {
		b := Badge{Label: lvl.Title, Path: lvl.Path}
		if i < half {
			left = append(left, b)
		} else {
			right = append(right, b)
		}
	}
	return left, right
}
