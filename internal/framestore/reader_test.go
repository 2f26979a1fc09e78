package framestore

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	metadata := Metadata{
		Name:        "Test Sequence",
		Format:      "png",
		Description: "Test description",
		Width:       128,
		Height:      64,
		FrameCount:  3,
		WFrom:       0,
		WTo:         2,
		Seed:        42,
		Mode:        "nearest-distance",
	}

	w, err := New(dbPath, metadata)
	require.NoError(t, err)

	frames := map[int][]byte{
		0: []byte("frame zero data"),
		1: []byte("frame one data"),
		2: []byte("frame two data"),
	}
	for frame, data := range frames {
		require.NoError(t, w.WriteFrame(frame, data))
	}
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	for frame, want := range frames {
		got, err := r.ReadFrame(frame)
		require.NoError(t, err, "frame %d", frame)
		require.Equal(t, want, got, "frame %d", frame)
	}

	count, err := r.FrameCount()
	require.NoError(t, err)
	require.Equal(t, len(frames), count)
}

func TestReader_Metadata(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	want := Metadata{
		Name:        "Test Sequence",
		Format:      "png",
		Description: "desc",
		Width:       320,
		Height:      240,
		FrameCount:  8,
		WFrom:       0.25,
		WTo:         1.75,
		Seed:        7,
		Mode:        "color",
	}

	w, err := New(dbPath, want)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Metadata()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestReader_MissingFrame(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	w, err := New(dbPath, Metadata{Name: "Test", Format: "png"})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadFrame(99)
	require.Error(t, err)
}

func TestOpenReader_RejectsForeignDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "other.db")

	// Build a SQLite file without the frames schema by dropping the table
	// through the writer's raw connection.
	w, err := New(dbPath, Metadata{Name: "Test", Format: "png"})
	require.NoError(t, err)
	_, err = w.db.Exec("DROP TABLE frames")
	require.NoError(t, err)
	require.NoError(t, w.db.Close())

	_, err = OpenReader(dbPath)
	require.Error(t, err)
}

func TestReader_ManyFrames(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	w, err := New(dbPath, Metadata{Name: "Test", Format: "png"})
	require.NoError(t, err)

	const total = DefaultBatchSize*2 + 5
	for i := 0; i < total; i++ {
		require.NoError(t, w.WriteFrame(i, []byte(fmt.Sprintf("frame %d", i))))
	}
	require.NoError(t, w.Close())

	r, err := OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	count, err := r.FrameCount()
	require.NoError(t, err)
	require.Equal(t, total, count)

	data, err := r.ReadFrame(total - 1)
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("frame %d", total-1), string(data))
}
