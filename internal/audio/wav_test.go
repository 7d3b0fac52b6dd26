package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInspectEngineReadyWAV(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "speech.wav", makePCM16WAV(make([]int16, 1600), 16000, 1))

	format, err := Inspect(path)
	require.NoError(t, err)
	require.EqualValues(t, 1, format.AudioFormat)
	require.EqualValues(t, 1, format.Channels)
	require.EqualValues(t, 16000, format.SampleRate)
	require.EqualValues(t, 16, format.BitsPerSample)
	require.EqualValues(t, 3200, format.DataBytes)
	require.True(t, format.EngineReady())
}

func TestInspectNeedsConversion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sampleRate int
		channels   int
	}{
		{name: "cd quality stereo", sampleRate: 44100, channels: 2},
		{name: "mono 48k", sampleRate: 48000, channels: 1},
		{name: "stereo 16k", sampleRate: 16000, channels: 2},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, "in.wav", makePCM16WAV(make([]int16, 64), tt.sampleRate, tt.channels))
			format, err := Inspect(path)
			require.NoError(t, err)
			require.False(t, format.EngineReady())
		})
	}
}

func TestInspectSkipsUnknownChunks(t *testing.T) {
	t.Parallel()

	wav := makePCM16WAV(make([]int16, 8), 16000, 1)

	// Splice an odd-sized LIST chunk between the RIFF header and fmt.
	var buf bytes.Buffer
	buf.Write(wav[:12])
	buf.WriteString("LIST")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{'a', 'b', 'c', 0})
	buf.Write(wav[12:])

	format, err := readFormat(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, format.EngineReady())
}

func TestInspectRejectsGarbage(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "not-audio.wav", []byte("hello, this is not audio"))
	_, err := Inspect(path)
	require.ErrorIs(t, err, ErrInvalidWAV)

	short := writeFile(t, "short.wav", []byte("RIFF"))
	_, err = Inspect(short)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestInspectRejectsMissingDataChunk(t *testing.T) {
	t.Parallel()

	wav := makePCM16WAV(nil, 16000, 1)
	_, err := readFormat(bytes.NewReader(wav[:12+8+16]))
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestInspectRejectsUnsupportedEncoding(t *testing.T) {
	t.Parallel()

	wav := makePCM16WAV(make([]int16, 4), 16000, 1)
	// Format tag 2 is MS ADPCM.
	binary.LittleEndian.PutUint16(wav[20:], 2)

	_, err := readFormat(bytes.NewReader(wav))
	require.ErrorIs(t, err, ErrUnsupportedWAV)
}

func TestInspectRejectsOversizedFmtChunk(t *testing.T) {
	t.Parallel()

	garbage := []byte("RIFF\x00\x00\x00\x00WAVEfmt \xff\xff\xff\xff")
	path := writeFile(t, "huge-fmt.wav", garbage)

	_, err := Inspect(path)
	require.ErrorIs(t, err, ErrInvalidWAV)
}

func TestInspectSkipsFmtChunkExtension(t *testing.T) {
	t.Parallel()

	wav := makePCM16WAV(make([]int16, 4), 16000, 1)
	extra := make([]byte, 50)

	var buf bytes.Buffer
	buf.Write(wav[:16])
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16+len(extra)))
	buf.Write(wav[20 : 20+16])
	buf.Write(extra)
	buf.Write(wav[20+16:])

	format, err := readFormat(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.True(t, format.EngineReady())
	require.Equal(t, uint32(8), format.DataBytes)
}
