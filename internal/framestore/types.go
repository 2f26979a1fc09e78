// Package framestore persists rendered animation frames in a single SQLite
// database, so a sequence ships as one file instead of a folder of PNGs.
package framestore

import "fmt"

// Metadata describes a stored frame sequence.
type Metadata struct {
	Name        string // human-readable sequence identifier
	Format      string // frame encoding (png)
	Description string
	Width       int
	Height      int
	FrameCount  int
	WFrom       float64 // W-axis value of the first frame
	WTo         float64 // W-axis value of the last frame
	Seed        uint32
	Mode        string // render mode name
}

// ToMap converts Metadata to a map for database insertion.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Format != "" {
		result["format"] = m.Format
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Width > 0 {
		result["width"] = fmt.Sprintf("%d", m.Width)
	}
	if m.Height > 0 {
		result["height"] = fmt.Sprintf("%d", m.Height)
	}
	if m.FrameCount > 0 {
		result["frame_count"] = fmt.Sprintf("%d", m.FrameCount)
	}
	if m.WFrom != 0 || m.WTo != 0 {
		result["w_from"] = fmt.Sprintf("%.6f", m.WFrom)
		result["w_to"] = fmt.Sprintf("%.6f", m.WTo)
	}
	result["seed"] = fmt.Sprintf("%d", m.Seed)
	if m.Mode != "" {
		result["mode"] = m.Mode
	}

	return result
}
