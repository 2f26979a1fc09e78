package framestore

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"strconv"
)

// Reader reads frames from a sequence database.
type Reader struct {
	db   *sql.DB
	path string
}

// OpenReader opens a frame store for reading.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='frames'").Scan(&count)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if count == 0 {
		db.Close()
		return nil, fmt.Errorf("database does not contain frames table")
	}

	return &Reader{
		db:   db,
		path: path,
	}, nil
}

// ReadFrame reads one frame and returns the ungzipped PNG data.
func (r *Reader) ReadFrame(frame int) ([]byte, error) {
	var compressedData []byte
	err := r.db.QueryRow(
		"SELECT frame_data FROM frames WHERE frame_index=?",
		frame,
	).Scan(&compressedData)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("frame not found: %d", frame)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query frame: %w", err)
	}

	uncompressed, err := gzipDecompress(compressedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress frame: %w", err)
	}

	return uncompressed, nil
}

// FrameCount returns the number of stored frames.
func (r *Reader) FrameCount() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return count, nil
}

// Metadata reads sequence metadata from the database.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	metaMap := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		metaMap[name] = value
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("error iterating metadata: %w", err)
	}

	meta := Metadata{
		Name:        metaMap["name"],
		Format:      metaMap["format"],
		Description: metaMap["description"],
		Mode:        metaMap["mode"],
	}

	if v, ok := metaMap["width"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Width = i
		}
	}
	if v, ok := metaMap["height"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.Height = i
		}
	}
	if v, ok := metaMap["frame_count"]; ok {
		if i, err := strconv.Atoi(v); err == nil {
			meta.FrameCount = i
		}
	}
	if v, ok := metaMap["w_from"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			meta.WFrom = f
		}
	}
	if v, ok := metaMap["w_to"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			meta.WTo = f
		}
	}
	if v, ok := metaMap["seed"]; ok {
		if i, err := strconv.ParseUint(v, 10, 32); err == nil {
			meta.Seed = uint32(i)
		}
	}

	return meta, nil
}

// Close closes the database connection.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func gzipDecompress(data []byte) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gr.Close()

	uncompressed, err := io.ReadAll(gr)
	if err != nil {
		return nil, err
	}

	return uncompressed, nil
}
