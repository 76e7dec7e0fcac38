package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
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
	data := make([]byte, size)
	for i := range data {
		data[i] = 0x42
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Stream is a StreamedFiles record.
type Stream struct {
	ID        string
	ShortName string
}

// Bank is a SoundBank with its events.
type Bank struct {
	Name   string
	Events []BankEvent
}

// BankEvent is an Event with the short names of its referenced files.
type BankEvent struct {
	Name  string
	Files []string
}

// ManifestSpec describes a SoundbanksInfo.xml document.
type ManifestSpec struct {
	Streams []Stream
	Banks   []Bank
}

// RenderManifest produces the XML for spec in the layout Wwise writes.
func RenderManifest(spec ManifestSpec) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<SoundBanksInfo Platform="Windows" SchemaVersion="11">` + "\n")
	b.WriteString("  <StreamedFiles>\n")
	for _, s := range spec.Streams {
		fmt.Fprintf(&b, "    <File Id=%q Language=\"English(US)\">\n", s.ID)
		fmt.Fprintf(&b, "      <ShortName>%s</ShortName>\n", escape(s.ShortName))
		fmt.Fprintf(&b, "      <Path>English(US)\\%s.wem</Path>\n", escape(s.ID))
		b.WriteString("    </File>\n")
	}
	b.WriteString("  </StreamedFiles>\n")
	b.WriteString("  <SoundBanks>\n")
	for i, bank := range spec.Banks {
		fmt.Fprintf(&b, "    <SoundBank Id=\"%d\" Language=\"SFX\">\n", 1000+i)
		fmt.Fprintf(&b, "      <ShortName>%s</ShortName>\n", escape(bank.Name))
		b.WriteString("      <IncludedEvents>\n")
		for j, ev := range bank.Events {
			fmt.Fprintf(&b, "        <Event Id=\"%d\" Name=%q>\n", 2000+j, ev.Name)
			b.WriteString("          <ReferencedStreamedFiles>\n")
			for k, file := range ev.Files {
				fmt.Fprintf(&b, "            <File Id=\"%d\"><ShortName>%s</ShortName></File>\n", 3000+k, escape(file))
			}
			b.WriteString("          </ReferencedStreamedFiles>\n")
			b.WriteString("        </Event>\n")
		}
		b.WriteString("      </IncludedEvents>\n")
		b.WriteString("    </SoundBank>\n")
	}
	b.WriteString("  </SoundBanks>\n")
	b.WriteString("</SoundBanksInfo>\n")
	return b.String()
}

// WriteManifest renders spec to path.
func WriteManifest(t testing.TB, path string, spec ManifestSpec) {
	t.Helper()
	writeText(t, path, RenderManifest(spec))
}

// WriteEventMap writes a sound map whose key object holds pairs in order.
// pairs alternates subtitle key and event name.
func WriteEventMap(t testing.TB, path, key string, pairs ...string) {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("WriteEventMap: odd number of pair values")
	}
	var b strings.Builder
	b.WriteString("{\n  ")
	keyJSON, _ := json.Marshal(key)
	b.Write(keyJSON)
	b.WriteString(": {")
	for i := 0; i < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString(",")
		}
		k, _ := json.Marshal(pairs[i])
		v, _ := json.Marshal(pairs[i+1])
		fmt.Fprintf(&b, "\n    %s: %s", k, v)
	}
	b.WriteString("\n  }\n}\n")
	writeText(t, path, b.String())
}

// WriteArchive writes a fake package whose contents are the listed entry
// names, one per line. FakeTools' extractor materialises them.
func WriteArchive(t testing.TB, path string, entries ...string) {
	t.Helper()
	writeText(t, path, strings.Join(entries, "\n"))
}

// EncodeWAV writes a mono 16-bit PCM file of silence.
func EncodeWAV(path string, sampleRate, samples int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, samples),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// WriteWAV is EncodeWAV for tests.
func WriteWAV(t testing.TB, path string, sampleRate, samples int) {
	t.Helper()
	if err := EncodeWAV(path, sampleRate, samples); err != nil {
		t.Fatalf("write wav %s: %v", path, err)
	}
}

// ListDir returns the sorted entry names in dir, or nil if it does not exist.
func ListDir(t testing.TB, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read dir %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func writeText(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func escape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
