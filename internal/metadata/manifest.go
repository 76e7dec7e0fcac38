package metadata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
)

// Event is a named trigger and the short names of the streamed files it
// references, in document order.
type Event struct {
	Name  string
	Files []string
}

// StreamedFile associates a stream id with its original short name.
type StreamedFile struct {
	ID        string
	ShortName string
	// HasShortName is false when the File element carries no ShortName child.
	HasShortName bool
}

// Manifest is the subset of SoundbanksInfo.xml the export reads. Events and
// streamed files are listed in document order across all sound banks.
type Manifest struct {
	Events  []Event
	Streams []StreamedFile
}

type eventXML struct {
	Name       string   `xml:"Name,attr"`
	ShortNames []string `xml:"ReferencedStreamedFiles>File>ShortName"`
}

type streamedFilesXML struct {
	Files []struct {
		ID        string  `xml:"Id,attr"`
		ShortName *string `xml:"ShortName"`
	} `xml:"File"`
}

// LoadManifest parses the sound bank manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	r, err := openText("manifest", path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	manifest, err := ParseManifest(r)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformed, "manifest", "parse", path, err)
	}
	return manifest, nil
}

// ParseManifest reads a manifest document. Event elements are collected at
// any depth; File records are collected from every StreamedFiles element.
func ParseManifest(r io.Reader) (*Manifest, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader

	manifest := &Manifest{}
	sawRoot := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		switch start.Name.Local {
		case "Event":
			var ev eventXML
			if err := decoder.DecodeElement(&ev, &start); err != nil {
				return nil, fmt.Errorf("event: %w", err)
			}
			files := make([]string, 0, len(ev.ShortNames))
			for _, name := range ev.ShortNames {
				files = append(files, baseName(name))
			}
			manifest.Events = append(manifest.Events, Event{Name: ev.Name, Files: files})
		case "StreamedFiles":
			var sf streamedFilesXML
			if err := decoder.DecodeElement(&sf, &start); err != nil {
				return nil, fmt.Errorf("streamed files: %w", err)
			}
			for _, file := range sf.Files {
				entry := StreamedFile{ID: strings.TrimSpace(file.ID)}
				if file.ShortName != nil {
					entry.ShortName = *file.ShortName
					entry.HasShortName = true
				}
				manifest.Streams = append(manifest.Streams, entry)
			}
		}
	}
	if !sawRoot {
		return nil, errors.New("empty document")
	}
	return manifest, nil
}

// EventFiles maps every event name to the basenames it references. An event
// name that occurs in several sound banks accumulates all of their files,
// duplicates included.
func (m *Manifest) EventFiles() EventFiles {
	files := make(EventFiles, len(m.Events))
	for _, ev := range m.Events {
		files[ev.Name] = append(files[ev.Name], ev.Files...)
	}
	return files
}

// StreamNames builds the stream id lookup. When an id is listed more than once
// the first record with a ShortName element wins.
func (m *Manifest) StreamNames() StreamNames {
	names := make(StreamNames, len(m.Streams))
	for _, stream := range m.Streams {
		if !stream.HasShortName || stream.ID == "" {
			continue
		}
		if _, seen := names[stream.ID]; seen {
			continue
		}
		names[stream.ID] = baseName(stream.ShortName)
	}
	return names
}

// EventFiles maps an event name to the basenames of its streamed files.
type EventFiles map[string][]string

// StreamNames maps a stream id to the basename of its short name.
type StreamNames map[string]string

// Resolve returns the distributable name for a stream id. Ids without a
// usable record resolve to the id itself.
func (s StreamNames) Resolve(id string) string {
	if name, ok := s[id]; ok && name != "" {
		return name
	}
	return id
}

// baseName strips any directory prefix. Manifests are written on Windows, so
// both separators are honoured regardless of the host OS.
func baseName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// charsetReader handles the encoding declared in the XML prolog. Input has
// already been normalised to UTF-8 by openText, so Unicode labels pass
// through unchanged.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8", "utf-16", "utf-16le", "utf-16be":
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
