package filmio

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
	"github.com/df07/go-sphere-pathtracer/pkg/renderer"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func testFilm() *renderer.Film {
	film := renderer.NewFilm(3, 2)
	for i := range film.Pixels {
		film.Pixels[i] = core.NewColor(float64(i), 0.5*float64(i), 1e-9)
	}
	film.Samples = 17
	return film
}

func TestRoundTrip(t *testing.T) {
	film := testFilm()

	var buf bytes.Buffer
	if err := WriteFilm(film, &buf); err != nil {
		t.Fatalf("WriteFilm: %v", err)
	}

	got, err := ReadFilm(&buf)
	if err != nil {
		t.Fatalf("ReadFilm: %v", err)
	}
	if diff := cmp.Diff(film, got); diff != "" {
		t.Errorf("Film mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestRoundTripFile(t *testing.T) {
	film := testFilm()
	name := filepath.Join(t.TempDir(), "render.film")

	if err := WriteFilmToFile(film, name); err != nil {
		t.Fatalf("WriteFilmToFile: %v", err)
	}
	got, err := ReadFilmFromFile(name)
	if err != nil {
		t.Fatalf("ReadFilmFromFile: %v", err)
	}
	if diff := cmp.Diff(film, got); diff != "" {
		t.Errorf("Film mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestReadFilmFromFile_Missing(t *testing.T) {
	if _, err := ReadFilmFromFile(filepath.Join(t.TempDir(), "nope.film")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func headerOnly(t *testing.T, fields map[string]interface{}) []byte {
	t.Helper()
	hdr, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	hdrBytes, err := proto.Marshal(hdr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(len(hdrBytes)))
	buf.Write(hdrBytes)
	return buf.Bytes()
}

func TestReadFilm_Errors(t *testing.T) {
	var valid bytes.Buffer
	if err := WriteFilm(testFilm(), &valid); err != nil {
		t.Fatalf("WriteFilm: %v", err)
	}

	negativeFilm := testFilm()
	negativeFilm.Samples = -1
	var negative bytes.Buffer
	if err := WriteFilm(negativeFilm, &negative); err != nil {
		t.Fatalf("WriteFilm: %v", err)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{"empty", nil},
		{"short header", valid.Bytes()[:10]},
		{"truncated data", valid.Bytes()[:valid.Len()-20]},
		{"huge header length", []byte{0, 0, 0, 0, 0, 0, 0, 1}},
		{"wrong layout version", headerOnly(t, map[string]interface{}{
			"width": 3, "height": 2, "samples": 1, "data_layout_version": 2,
		})},
		{"bad size", headerOnly(t, map[string]interface{}{
			"width": 0, "height": 2, "samples": 1, "data_layout_version": 1,
		})},
		{"overflowing size", headerOnly(t, map[string]interface{}{
			"width": 3e9, "height": 3e9, "samples": 1, "data_layout_version": 1,
		})},
		{"oversized film", headerOnly(t, map[string]interface{}{
			"width": 100000, "height": 100000, "samples": 1, "data_layout_version": 1,
		})},
		{"negative samples", negative.Bytes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadFilm(bytes.NewReader(tt.input)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
