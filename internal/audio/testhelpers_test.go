package audio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func makePCM16WAV(samples []int16, sampleRate int, channels int) []byte {
	bytesPerSample := 2
	dataSize := len(samples) * bytesPerSample
	fmtChunkSize := 16
	riffSize := 4 + (8 + fmtChunkSize) + (8 + dataSize)

	out := make([]byte, 12+8+fmtChunkSize+8+dataSize)
	off := 0

	copy(out[off:], "RIFF")
	binary.LittleEndian.PutUint32(out[off+4:], uint32(riffSize))
	copy(out[off+8:], "WAVE")
	off += 12

	copy(out[off:], "fmt ")
	binary.LittleEndian.PutUint32(out[off+4:], uint32(fmtChunkSize))
	binary.LittleEndian.PutUint16(out[off+8:], 1)
	binary.LittleEndian.PutUint16(out[off+10:], uint16(channels))
	binary.LittleEndian.PutUint32(out[off+12:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[off+16:], uint32(sampleRate*channels*bytesPerSample))
	binary.LittleEndian.PutUint16(out[off+20:], uint16(channels*bytesPerSample))
	binary.LittleEndian.PutUint16(out[off+22:], 16)
	off += 8 + fmtChunkSize

	copy(out[off:], "data")
	binary.LittleEndian.PutUint32(out[off+4:], uint32(dataSize))
	off += 8

	for _, s := range samples {
		binary.LittleEndian.PutUint16(out[off:], uint16(s))
		off += 2
	}

	return out
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func writeStub(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}
