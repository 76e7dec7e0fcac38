package vgmstream_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/logging"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/services/vgmstream"
	"github.com/creeping1023/WOTR-Dialogues-Audio/internal/toolexec"
)

func TestDecodeBuildsCommand(t *testing.T) {
	var got toolexec.Command
	runner := toolexec.RunnerFunc(func(_ context.Context, cmd toolexec.Command) error {
		got = cmd
		return nil
	})
	client, err := vgmstream.New("vgmstream-cli", vgmstream.WithRunner(runner), vgmstream.WithLogger(logging.NewNop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !client.Decode(context.Background(), "wem/123.wem", "wav/Line_01.wav") {
		t.Fatal("expected success")
	}
	want := []string{"-o", "wav/Line_01.wav", "wem/123.wem"}
	if got.Binary != "vgmstream-cli" || !reflect.DeepEqual(got.Args, want) {
		t.Fatalf("command = %#v", got)
	}
}

func TestDecodeCancelledContext(t *testing.T) {
	runner := toolexec.RunnerFunc(func(ctx context.Context, _ toolexec.Command) error {
		return ctx.Err()
	})
	client, err := vgmstream.New("vgmstream-cli", vgmstream.WithRunner(runner), vgmstream.WithLogger(logging.NewNop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if client.Decode(ctx, "a.wem", "a.wav") {
		t.Fatal("cancelled decode should not report success")
	}
}

func TestNewRequiresBinary(t *testing.T) {
	if _, err := vgmstream.New(""); err == nil {
		t.Fatal("expected error")
	}
}
