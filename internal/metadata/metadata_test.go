package metadata

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/testsupport"
)

func TestEventFilesAppendAcrossBanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SoundbanksInfo.xml")
	testsupport.WriteManifest(t, path, testsupport.ManifestSpec{
		Banks: []testsupport.Bank{
			{Name: "A", Events: []testsupport.BankEvent{{Name: "VO_Greet", Files: []string{`Voice\English\greet_01.wem`}}}},
			{Name: "B", Events: []testsupport.BankEvent{{Name: "VO_Greet", Files: []string{`Voice\English\greet_01.wem`}}}},
		},
	})

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	files := manifest.EventFiles()
	want := []string{"greet_01.wem", "greet_01.wem"}
	if got := files["VO_Greet"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("EventFiles[VO_Greet] = %v, want %v", got, want)
	}

	ledger := BuildWanted(SubtitleEvents{{Key: "a1b2", Event: "VO_Greet"}}, files)
	if got := ledger.Additions("greet_01.wem"); got != 2 {
		t.Fatalf("Additions = %d, want 2", got)
	}
	if !ledger.IsWanted("greet_01.wem") || ledger.WantedCount("greet_01.wem") != 0 {
		t.Fatal("expected greet_01.wem wanted with zero count")
	}
	if len(ledger.Wanted()) != 1 {
		t.Fatalf("wanted entries = %v", ledger.Wanted())
	}
}

func TestBuildWantedCoversEveryReferencedFile(t *testing.T) {
	files := EventFiles{
		"VO_A":      {"a_01.wav", "a_02.wav"},
		"VO_B":      {"b_01.wav"},
		"VO_Unused": {"unused.wav"},
	}
	subs := SubtitleEvents{
		{Key: "k1", Event: "VO_B"},
		{Key: "k2", Event: "VO_A"},
		{Key: "k3", Event: "VO_NotInManifest"},
	}
	ledger := BuildWanted(subs, files)

	for _, sub := range subs {
		for _, name := range files[sub.Event] {
			if !ledger.IsWanted(name) {
				t.Errorf("%s referenced by %s is not wanted", name, sub.Event)
			}
		}
	}
	if ledger.IsWanted("unused.wav") {
		t.Fatal("file of an event without subtitles must not be wanted")
	}
	var order []string
	for _, entry := range ledger.Wanted() {
		order = append(order, entry.Name)
	}
	if want := []string{"b_01.wav", "a_01.wav", "a_02.wav"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("wanted order = %v, want %v", order, want)
	}
}

func TestStreamNamesResolve(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(testsupport.RenderManifest(testsupport.ManifestSpec{
		Streams: []testsupport.Stream{
			{ID: "101", ShortName: `Voice\English\Line_01.wav`},
			{ID: "102", ShortName: "Voice/English/Line_02.wav"},
			{ID: "101", ShortName: "Later_Duplicate.wav"},
		},
	})))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	names := manifest.StreamNames()

	tests := []struct {
		id   string
		want string
	}{
		{"101", "Line_01.wav"},
		{"102", "Line_02.wav"},
		{"999", "999"},
	}
	for _, tt := range tests {
		if got := names.Resolve(tt.id); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestStreamNamesSkipRecordsWithoutShortName(t *testing.T) {
	doc := `<SoundBanksInfo><StreamedFiles>
<File Id="7"><Path>x.wem</Path></File>
<File Id="7"><ShortName>seven.wav</ShortName></File>
<File Id="8"><ShortName></ShortName></File>
<File Id="8"><ShortName>eight.wav</ShortName></File>
</StreamedFiles></SoundBanksInfo>`
	manifest, err := ParseManifest(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	names := manifest.StreamNames()
	if got := names.Resolve("7"); got != "seven.wav" {
		t.Fatalf("Resolve(7) = %q", got)
	}
	if got := names.Resolve("8"); got != "8" {
		t.Fatalf("Resolve(8) = %q, want fallback to id", got)
	}
	// The empty ShortName is the first-seen entry for 8 and is not replaced.
	if name, ok := names["8"]; !ok || name != "" {
		t.Fatalf("names[8] = %q, %v; want empty first-seen entry", name, ok)
	}
}

func TestLoadManifestMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(path, []byte("<SoundBanksInfo><SoundBanks>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(path); !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}

	empty := filepath.Join(dir, "empty.xml")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadManifest(empty); !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for empty file, got %v", err)
	}

	if _, err := LoadManifest(filepath.Join(dir, "missing.xml")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadManifestStripsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.xml")
	doc := "\xef\xbb\xbf" + testsupport.RenderManifest(testsupport.ManifestSpec{
		Streams: []testsupport.Stream{{ID: "1", ShortName: "one.wav"}},
	})
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if got := manifest.StreamNames().Resolve("1"); got != "one.wav" {
		t.Fatalf("Resolve(1) = %q", got)
	}
}

func TestParseSubtitleEvents(t *testing.T) {
	doc := `{"version": 3, "strings": {"k2": "VO_B", "k1": "VO_A", "k2": "VO_C"}}`
	events, err := ParseSubtitleEvents(strings.NewReader(doc), "strings")
	if err != nil {
		t.Fatalf("ParseSubtitleEvents: %v", err)
	}
	want := SubtitleEvents{{Key: "k2", Event: "VO_C"}, {Key: "k1", Event: "VO_A"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %#v, want %#v", events, want)
	}
}

func TestParseSubtitleEventsSkipsScalarValues(t *testing.T) {
	doc := `{"strings": {"a": "VO_A", "b": null, "c": 3, "d": true, "e": "VO_E", "e": null, "f": null, "f": "VO_F"}}`
	events, err := ParseSubtitleEvents(strings.NewReader(doc), "strings")
	if err != nil {
		t.Fatalf("ParseSubtitleEvents: %v", err)
	}
	want := SubtitleEvents{{Key: "a", Event: "VO_A"}, {Key: "f", Event: "VO_F"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %#v, want %#v", events, want)
	}
}

func TestParseSubtitleEventsErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `{"strings": {`},
		{"missing key", `{"other": {}}`},
		{"not object", `{"strings": ["VO_A"]}`},
		{"array value", `{"strings": {"k": ["VO_A"]}}`},
		{"object value", `{"strings": {"k": {"event": "VO_A"}}}`},
		{"top level array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSubtitleEvents(strings.NewReader(tt.doc), "strings"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadSubtitleEventsWrapsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Sound.json")
	if err := os.WriteFile(path, []byte(`{"strings": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSubtitleEvents(path, "strings"); !errors.Is(err, services.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestLoadBuildsLookups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteManifest(t, cfg.Paths.Manifest, testsupport.ManifestSpec{
		Streams: []testsupport.Stream{{ID: "11", ShortName: `Voice\hello.wav`}},
		Banks: []testsupport.Bank{
			{Name: "VO", Events: []testsupport.BankEvent{{Name: "VO_Hello", Files: []string{`Voice\hello.wav`}}}},
		},
	})
	testsupport.WriteEventMap(t, cfg.Paths.EventMap, "strings", "guid-1", "VO_Hello")

	lookups, err := Load(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := lookups.Streams.Resolve("11"); got != "hello.wav" {
		t.Fatalf("Resolve = %q", got)
	}
	ledger := lookups.Ledger()
	if !ledger.IsWanted("hello.wav") {
		t.Fatal("expected hello.wav wanted")
	}
	// Every call starts from zero.
	ledger.MarkFound("hello.wav")
	if lookups.Ledger().WantedCount("hello.wav") != 0 {
		t.Fatal("Ledger must return a fresh ledger")
	}
}
