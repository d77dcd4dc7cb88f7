package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteFrames creates stem<frame>ext files in dir, each zero padded to width
// and size bytes long, and returns their names.
func WriteFrames(t testing.TB, dir, stem string, width int, ext string, size int64, frames ...int) []string {
	t.Helper()

	names := make([]string, 0, len(frames))
	for _, frame := range frames {
		name := fmt.Sprintf("%s%0*d%s", stem, width, frame, ext)
		WriteFile(t, filepath.Join(dir, name), size)
		names = append(names, name)
	}
	return names
}

// FrameRange returns the frames first..last inclusive.
func FrameRange(first, last int) []int {
	frames := make([]int, 0, max(last-first+1, 0))
	for f := first; f <= last; f++ {
		frames = append(frames, f)
	}
	return frames
}
