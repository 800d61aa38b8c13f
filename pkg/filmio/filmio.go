// Package filmio saves and restores accumulated film so a render can be
// resumed later.
//
// File layout: an 8-byte little-endian header length, a protobuf-encoded
// header, then a zlib stream of little-endian float64 pixel sums (R, G, B per
// pixel, in film order).
package filmio

import (
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const dataLayoutVersion = 1

// maxHeaderLength guards against reading garbage as a header length
const maxHeaderLength = 1 << 20

// maxFilmPixels bounds width*height before the pixel buffer is allocated
const maxFilmPixels = 1 << 26

func WriteFilm(film *renderer.Film, w io.Writer) error {
	hdr, err := structpb.NewStruct(map[string]interface{}{
		"width":               film.Width,
		"height":              film.Height,
		"samples":             film.Samples,
		"data_layout_version": dataLayoutVersion,
	})
	if err != nil {
		return fmt.Errorf("while building header: %w", err)
	}

	hdrBytes, err := proto.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("while marshaling header: %w", err)
	}

	headerLengthBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(headerLengthBytes, uint64(len(hdrBytes)))
	if _, err := w.Write(headerLengthBytes); err != nil {
		return fmt.Errorf("while writing header length: %w", err)
	}

	if _, err := w.Write(hdrBytes); err != nil {
		return fmt.Errorf("while writing header: %w", err)
	}

	data := make([]float64, 0, 3*len(film.Pixels))
	for _, c := range film.Pixels {
		data = append(data, c.R, c.G, c.B)
	}

	zipWriter := zlib.NewWriter(w)

	if err := binary.Write(zipWriter, binary.LittleEndian, data); err != nil {
		return fmt.Errorf("while writing pixel sums: %w", err)
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("while closing zip writer: %w", err)
	}

	return nil
}

func ReadFilm(in io.Reader) (*renderer.Film, error) {
	var headerLength uint64
	if err := binary.Read(in, binary.LittleEndian, &headerLength); err != nil {
		return nil, fmt.Errorf("while reading header length: %w", err)
	}
	if headerLength > maxHeaderLength {
		return nil, fmt.Errorf("header length %d exceeds %d bytes", headerLength, maxHeaderLength)
	}

	headerBytes := make([]byte, int(headerLength))
	if _, err := io.ReadFull(in, headerBytes); err != nil {
		return nil, fmt.Errorf("while reading header bytes: %w", err)
	}

	hdr := &structpb.Struct{}
	if err := proto.Unmarshal(headerBytes, hdr); err != nil {
		return nil, fmt.Errorf("while unmarshaling header: %w", err)
	}

	fields := hdr.GetFields()
	if v := int(fields["data_layout_version"].GetNumberValue()); v != dataLayoutVersion {
		return nil, fmt.Errorf("bad data layout version: %v", v)
	}

	width := int(fields["width"].GetNumberValue())
	height := int(fields["height"].GetNumberValue())
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bad film size %dx%d", width, height)
	}
	if width > maxFilmPixels/height {
		return nil, fmt.Errorf("film size %dx%d exceeds %d pixels", width, height, maxFilmPixels)
	}

	samples := int(fields["samples"].GetNumberValue())
	if samples < 0 {
		return nil, fmt.Errorf("bad sample count %d", samples)
	}

	film := renderer.NewFilm(width, height)
	film.Samples = samples

	zipReader, err := zlib.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("while opening zip reader: %w", err)
	}
	defer zipReader.Close()

	data := make([]float64, 3*width*height)
	if err := binary.Read(zipReader, binary.LittleEndian, data); err != nil {
		return nil, fmt.Errorf("while reading pixel sums: %w", err)
	}

	for i := range film.Pixels {
		film.Pixels[i] = core.NewColor(data[3*i], data[3*i+1], data[3*i+2])
	}

	return film, nil
}

func ReadFilmFromFile(name string) (*renderer.Film, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("while opening file: %w", err)
	}
	defer f.Close()

	return ReadFilm(f)
}

// WriteFilmToFile writes the checkpoint to name.tmp and renames it over name
func WriteFilmToFile(film *renderer.Film, name string) error {
	tmp := name + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("while creating file: %w", err)
	}

	if err := WriteFilm(film, f); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("while closing file: %w", err)
	}

	if err := os.Rename(tmp, name); err != nil {
		return fmt.Errorf("while renaming checkpoint into place: %w", err)
	}

	return nil
}
