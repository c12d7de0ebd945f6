// Package dataset defines the boundary to the external "dataset library"
// collaborator named in spec.md §6: element encode/decode, streaming file
// reads, and File Meta Information, all under a caller-supplied transfer
// syntax. The engine itself never interprets attribute semantics beyond
// the DIMSE command dictionary and a few identity elements used by
// example handlers (spec.md §6).
package dataset

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/suyashkumar/dicom"
	dicomtag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/dulengine/dul/transfersyntax"
)

// FileMeta is the minimal set of File Meta Information group (0002,eeee)
// fields the engine needs to write a conformant Part 10 file header for a
// received dataset (spec.md §6 "materialise a File Meta Information
// header").
type FileMeta struct {
	MediaStorageSOPClassUID    string
	MediaStorageSOPInstanceUID string
	TransferSyntaxUID          string
	ImplementationClassUID     string
	ImplementationVersionName  string
}

// Codec is the interface the engine depends on for everything dataset-
// shaped. A default implementation (NewDefaultCodec) is backed by
// github.com/suyashkumar/dicom; callers may supply their own to swap in a
// different dataset library entirely.
type Codec interface {
	// EncodeElements serializes elements to w under the given transfer
	// syntax's byte order and VR mode.
	EncodeElements(w io.Writer, ts transfersyntax.TransferSyntax, elements []*dicom.Element) error

	// DecodeElements parses exactly length bytes of r as a sequence of
	// elements encoded under ts.
	DecodeElements(r io.Reader, length int64, ts transfersyntax.TransferSyntax) ([]*dicom.Element, error)

	// StreamFile opens path and returns its parsed dataset. The default
	// implementation reads and parses the whole file into memory; it does
	// not yield elements incrementally.
	StreamFile(path string) (*dicom.Dataset, error)

	// FileMetaHeader renders a conformant Part 10 preamble + File Meta
	// Information group for meta, ready to be followed by the dataset
	// body on the wire's chosen transfer syntax.
	FileMetaHeader(meta FileMeta) ([]byte, error)
}

// defaultCodec is the suyashkumar/dicom-backed implementation the engine
// uses unless a caller injects a different one.
type defaultCodec struct{}

// NewDefaultCodec returns the engine's built-in Codec.
func NewDefaultCodec() Codec { return defaultCodec{} }

func (defaultCodec) EncodeElements(w io.Writer, ts transfersyntax.TransferSyntax, elements []*dicom.Element) error {
	writer, err := dicom.NewWriter(w)
	if err != nil {
		return fmt.Errorf("dataset: creating writer: %w", err)
	}
	writer.SetTransferSyntax(ts.ByteOrder, ts.VR == transfersyntax.ImplicitVR)
	for _, e := range elements {
		if err := writer.WriteElement(e); err != nil {
			return fmt.Errorf("dataset: writing element %v: %w", e.Tag, err)
		}
	}
	return nil
}

// DecodeElements reads length bytes from r and parses them with
// dicom.Parse. ts is not consulted: the bytes are parsed with the
// parser's own default encoding whatever transfer syntax ts names.
func (defaultCodec) DecodeElements(r io.Reader, length int64, ts transfersyntax.TransferSyntax) ([]*dicom.Element, error) {
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, r, length); err != nil && err != io.EOF {
		return nil, fmt.Errorf("dataset: reading %d bytes: %w", length, err)
	}
	parsed, err := dicom.Parse(bytes.NewReader(buf.Bytes()), int64(buf.Len()), nil,
		dicom.SkipPixelData(), dicom.SkipMetadataReadOnNewParserInit())
	if err != nil {
		return nil, fmt.Errorf("dataset: parsing elements: %w", err)
	}
	return parsed.Elements, nil
}

func (defaultCodec) StreamFile(path string) (*dicom.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("dataset: stat %s: %w", path, err)
	}
	parsed, err := dicom.Parse(f, info.Size(), nil)
	if err != nil {
		return nil, fmt.Errorf("dataset: parsing %s: %w", path, err)
	}
	return &parsed, nil
}

func (defaultCodec) FileMetaHeader(meta FileMeta) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(make([]byte, 128)) // Part 10 preamble, all zeros.
	buf.WriteString("DICM")

	// File Meta Information group, PS3.10 Annex C.
	var (
		tagMediaStorageSOPClassUID    = dicomtag.Tag{Group: 0x0002, Element: 0x0002}
		tagMediaStorageSOPInstanceUID = dicomtag.Tag{Group: 0x0002, Element: 0x0003}
		tagTransferSyntaxUID          = dicomtag.Tag{Group: 0x0002, Element: 0x0010}
		tagImplementationClassUID     = dicomtag.Tag{Group: 0x0002, Element: 0x0012}
		tagImplementationVersionName  = dicomtag.Tag{Group: 0x0002, Element: 0x0013}
	)

	elems := []*dicom.Element{}
	add := func(t dicomtag.Tag, v string) error {
		e, err := dicom.NewElement(t, []string{v})
		if err != nil {
			return fmt.Errorf("dataset: building file meta element %v: %w", t, err)
		}
		elems = append(elems, e)
		return nil
	}
	if err := add(tagMediaStorageSOPClassUID, meta.MediaStorageSOPClassUID); err != nil {
		return nil, err
	}
	if err := add(tagMediaStorageSOPInstanceUID, meta.MediaStorageSOPInstanceUID); err != nil {
		return nil, err
	}
	if err := add(tagTransferSyntaxUID, meta.TransferSyntaxUID); err != nil {
		return nil, err
	}
	if err := add(tagImplementationClassUID, meta.ImplementationClassUID); err != nil {
		return nil, err
	}
	if meta.ImplementationVersionName != "" {
		if err := add(tagImplementationVersionName, meta.ImplementationVersionName); err != nil {
			return nil, err
		}
	}
	// File Meta Information is always Explicit VR Little Endian.
	if err := (defaultCodec{}).EncodeElements(&buf, transfersyntax.Decode(transfersyntax.ExplicitVRLittleEndian), elems); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
