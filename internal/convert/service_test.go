package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeRunner struct {
	duration   string
	probeErr   error
	streamErr  error
	progress   []string
	streamArgs [][]string
}

func (f *fakeRunner) Output(_ context.Context, _ string, _ ...string) ([]byte, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return []byte(f.duration + "\n"), nil
}

func (f *fakeRunner) Stream(_ context.Context, _ string, args []string, onLine func(string)) error {
	f.streamArgs = append(f.streamArgs, args)
	if f.streamErr != nil {
		return f.streamErr
	}
	for _, line := range f.progress {
		if onLine != nil {
			onLine(line)
		}
	}
	out := args[len(args)-1]
	return os.WriteFile(out, []byte("RIFF"), 0o644)
}

func TestDuration(t *testing.T) {
	service := newServiceWithRunner(&fakeRunner{duration: "123.456"}, nil)

	d, err := service.Duration(context.Background(), "/in.mp3")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if d != 123.456 {
		t.Errorf("Expected 123.456, got %f", d)
	}

	service = newServiceWithRunner(&fakeRunner{duration: "N/A"}, nil)
	if _, err := service.Duration(context.Background(), "/in.mp3"); err == nil {
		t.Error("Expected parse error for N/A duration")
	}
}

func TestBuildWAVArgs(t *testing.T) {
	args := BuildWAVArgs("/input.mp3", "/output.wav", 0, 0)

	expectedArgs := []string{
		"-y", "-nostdin",
		"-i", "/input.mp3",
		"-vn",
		"-ac", Channels,
		"-ar", SampleRate,
		"-c:a", AudioCodec,
		"-progress", "pipe:2",
		"-nostats",
		"/output.wav",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d: %v", len(expectedArgs), len(args), args)
	}
	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}

	trimmed := strings.Join(BuildWAVArgs("/in.mp3", "/out.wav", 600, 300), " ")
	if !strings.Contains(trimmed, "-ss 600.000 -i /in.mp3 -t 300.000") {
		t.Errorf("Unexpected trim args: %s", trimmed)
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		line     string
		expected float64
		ok       bool
	}{
		{"out_time_us=5000000", 0.5, true},
		{"out_time_us=20000000", 1.0, true},
		{"out_time_us=abc", 0, false},
		{"frame=10", 0, false},
	}

	for _, tt := range tests {
		p, ok := parseProgressLine(tt.line, 10)
		if ok != tt.ok || p != tt.expected {
			t.Errorf("parseProgressLine(%q) = %v, %v; expected %v, %v", tt.line, p, ok, tt.expected, tt.ok)
		}
	}
}

func TestToWAV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp3")
	out := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(in, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{duration: "10", progress: []string{"out_time_us=2500000", "progress=continue", "out_time_us=10000000"}}
	service := newServiceWithRunner(runner, nil)

	var got []float64
	if err := service.ToWAV(context.Background(), in, out, func(p float64, _ string) {
		got = append(got, p)
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []float64{0.25, 1.0, 1.0}
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("progress[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected output file, got %v", err)
	}
}

func TestToWAV_NonExistentFile(t *testing.T) {
	service := newServiceWithRunner(&fakeRunner{duration: "1"}, nil)

	err := service.ToWAV(context.Background(), "/path/to/nonexistent/file.mp3", "/tmp/x.wav", nil)
	if err == nil || !strings.Contains(err.Error(), "does not exist") {
		t.Errorf("Expected 'does not exist' error, got: %v", err)
	}
}

func TestToWAV_FFmpegFailureRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mp3")
	out := filepath.Join(dir, "out.wav")
	os.WriteFile(in, []byte("ID3"), 0o644)
	os.WriteFile(out, []byte("partial"), 0o644)

	service := newServiceWithRunner(&fakeRunner{duration: "1", streamErr: errors.New("boom")}, nil)
	if err := service.ToWAV(context.Background(), in, out, nil); err == nil {
		t.Fatal("Expected error")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("Expected partial output to be removed")
	}
}

func TestSplit_ShortInputIsSingleChunk(t *testing.T) {
	runner := &fakeRunner{duration: "120"}
	service := newServiceWithRunner(runner, nil)

	chunks, err := service.Split(context.Background(), "/in.wav", t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(chunks) != 1 || chunks[0].Path != "/in.wav" || chunks[0].Offset != 0 {
		t.Errorf("Unexpected chunks: %+v", chunks)
	}
	if len(runner.streamArgs) != 0 {
		t.Error("ffmpeg should not run for short input")
	}
}

func TestSplit_LongInput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chunks")
	runner := &fakeRunner{duration: "1500"}
	service := newServiceWithRunner(runner, nil)

	chunks, err := service.Split(context.Background(), "/in.wav", dir, 600)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := []Chunk{
		{Path: filepath.Join(dir, "segment_0_600000.wav"), Offset: 0, Duration: 600},
		{Path: filepath.Join(dir, "segment_600000_1200000.wav"), Offset: 600, Duration: 600},
		{Path: filepath.Join(dir, "segment_1200000_1500000.wav"), Offset: 1200, Duration: 300},
	}
	if len(chunks) != len(expected) {
		t.Fatalf("Expected %d chunks, got %d", len(expected), len(chunks))
	}
	for i := range expected {
		if chunks[i] != expected[i] {
			t.Errorf("chunk %d = %+v, expected %+v", i, chunks[i], expected[i])
		}
	}

	service.RemoveChunks(chunks, "/in.wav")
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("Expected chunk directory to be removed")
	}
}

func TestRemoveChunks_KeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "audio.wav")
	os.WriteFile(original, []byte("RIFF"), 0o644)

	service := newServiceWithRunner(&fakeRunner{}, nil)
	service.RemoveChunks([]Chunk{{Path: original}}, original)

	if _, err := os.Stat(original); err != nil {
		t.Errorf("Original must survive, got %v", err)
	}
}

func TestChunkName(t *testing.T) {
	if got := ChunkName(600, 1234.5); got != "segment_600000_1234500.wav" {
		t.Errorf("Unexpected chunk name %s", got)
	}
}
