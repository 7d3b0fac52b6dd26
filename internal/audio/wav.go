package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

const (
	formatPCM       = 1
	formatIEEEFloat = 3
	// WAVE_FORMAT_EXTENSIBLE carries the real format tag in its sub-format GUID.
	formatExtensible = 0xFFFE

	// fmtReadLimit covers the extensible fmt layout up to its sub-format tag.
	fmtReadLimit = 40
)

// Format describes the parts of a WAV header the engine cares about.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
	DataBytes     uint32
}

// EngineReady reports whether whisper-cli can read the file without conversion.
func (f Format) EngineReady() bool {
	return f.AudioFormat == formatPCM &&
		f.Channels == 1 &&
		f.SampleRate == TargetSampleRate &&
		f.BitsPerSample == 16
}

// Inspect reads the RIFF/WAVE chunk list of path and returns its format.
// Anything that is not a WAV file yields ErrInvalidWAV.
func Inspect(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Format{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	return readFormat(f)
}

func readFormat(r io.ReadSeeker) (Format, error) {
	header := make([]byte, 12)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Format{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return Format{}, fmt.Errorf("read wav header: %w", err)
	}
	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Format{}, ErrInvalidWAV
	}

	var (
		format  Format
		hasFmt  bool
		hasData bool
	)

	chunkHeader := make([]byte, 8)
	for !(hasFmt && hasData) {
		if _, err := io.ReadFull(r, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return Format{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])
		skip := int64(chunkSize) + int64(chunkSize%2)

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Format{}, ErrInvalidWAV
			}
			buf := make([]byte, min(chunkSize, fmtReadLimit))
			if _, err := io.ReadFull(r, buf); err != nil {
				return Format{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			format.AudioFormat = binary.LittleEndian.Uint16(buf[0:2])
			format.Channels = binary.LittleEndian.Uint16(buf[2:4])
			format.SampleRate = binary.LittleEndian.Uint32(buf[4:8])
			format.BitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			if format.AudioFormat == formatExtensible && len(buf) >= 26 {
				format.AudioFormat = binary.LittleEndian.Uint16(buf[24:26])
			}
			hasFmt = true

			if rest := skip - int64(len(buf)); rest > 0 {
				if _, err := r.Seek(rest, io.SeekCurrent); err != nil {
					return Format{}, fmt.Errorf("seek wav fmt chunk: %w", err)
				}
			}
		case "data":
			format.DataBytes = chunkSize
			hasData = true
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return Format{}, fmt.Errorf("seek wav data chunk: %w", err)
			}
		default:
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return Format{}, fmt.Errorf("seek wav chunk %q: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || !hasData {
		return Format{}, ErrInvalidWAV
	}
	if err := validateFormat(format.AudioFormat, format.BitsPerSample); err != nil {
		return Format{}, err
	}
	if format.Channels == 0 || format.SampleRate == 0 {
		return Format{}, ErrInvalidWAV
	}

	return format, nil
}

func validateFormat(audioFormat, bitsPerSample uint16) error {
	switch audioFormat {
	case formatPCM:
		switch bitsPerSample {
		case 8, 16, 24, 32:
			return nil
		}
	case formatIEEEFloat:
		switch bitsPerSample {
		case 32, 64:
			return nil
		}
	}
	return fmt.Errorf("%w: format tag %d with %d bits per sample", ErrUnsupportedWAV, audioFormat, bitsPerSample)
}
