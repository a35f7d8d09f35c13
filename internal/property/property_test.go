package property

import (
	"errors"
	"testing"
)

func TestIntPropertyRangeClamp(t *testing.T) {
	p := NewInt("channels", 2, 1, 8)
	if v, err := p.GetIntValue(); err != nil || v != 2 {
		t.Fatalf("default = %v, %v", v, err)
	}
	if err := p.SetIntValue(4); err != nil {
		t.Fatalf("SetIntValue(4): %v", err)
	}
	if err := p.SetIntValue(99); !errors.Is(err, ErrRange) {
		t.Fatalf("SetIntValue(99) = %v, want ErrRange", err)
	}
	v, _ := p.GetIntValue()
	if v != 4 {
		t.Fatalf("value after rejected set = %d, want unchanged 4", v)
	}
}

func TestPropertyTypeMismatch(t *testing.T) {
	p := NewFloat("gain", 1.0, 0, 4)
	if _, err := p.GetStringValue(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("GetStringValue on float property = %v, want ErrTypeMismatch", err)
	}
	if err := p.SetIntValue(1); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("SetIntValue on float property = %v, want ErrTypeMismatch", err)
	}
}

func TestReadOnlyProperty(t *testing.T) {
	p := NewFloat("state", 0, 0, 1).SetReadOnly(true)
	if err := p.SetFloatValue(1); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("SetFloatValue on read-only property = %v, want ErrReadOnly", err)
	}
}

func TestAutomationScheduleAndTick(t *testing.T) {
	p := NewFloat("freq", 440, 20, 20000)
	if err := p.ScheduleAutomationPoint(0, 440); err != nil {
		t.Fatal(err)
	}
	if err := p.ScheduleAutomationPoint(512, 880); err != nil {
		t.Fatal(err)
	}
	p.Tick(0, 512)
	if !p.NeedsARate() {
		t.Fatal("expected a-rate block after scheduling a future ramp")
	}
	first, err := p.GetFloatValue(0)
	if err != nil {
		t.Fatal(err)
	}
	if first != 440 {
		t.Fatalf("value at sample 0 = %v, want 440", first)
	}
	last, _ := p.GetFloatValue(511)
	if last <= 440 || last >= 880 {
		t.Fatalf("value at sample 511 = %v, want strictly between 440 and 880", last)
	}
}

func TestAutomationCancelPreservesPresentValue(t *testing.T) {
	p := NewFloat("freq", 100, 0, 1000)
	if err := p.ScheduleAutomationPoint(0, 100); err != nil {
		t.Fatal(err)
	}
	if err := p.ScheduleAutomationPoint(256, 900); err != nil {
		t.Fatal(err)
	}
	p.Tick(0, 128)
	before, _ := p.GetFloatValue(127)

	if err := p.CancelAutomation(128); err != nil {
		t.Fatal(err)
	}
	p.Tick(128, 128)
	after, _ := p.GetFloatValue(0)
	if after != before {
		t.Fatalf("cancelling future automation changed present value: before=%v after=%v", before, after)
	}
}

func TestAutomationUnsupportedOnNonNumeric(t *testing.T) {
	p := NewString("name", "x")
	if err := p.ScheduleAutomationPoint(0, 1); !errors.Is(err, ErrCannotAutomate) {
		t.Fatalf("ScheduleAutomationPoint on string property = %v, want ErrCannotAutomate", err)
	}
}

func TestIntArrayReplaceAndRange(t *testing.T) {
	p := NewIntArray("taps", []int{1, 2, 3}, 1, 8)
	if min, max, err := p.GetArrayRange(); err != nil || min != 1 || max != 8 {
		t.Fatalf("GetArrayRange = %d, %d, %v", min, max, err)
	}
	if err := p.ReplaceIntArray([]int{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if err := p.ReplaceIntArray(nil); !errors.Is(err, ErrRange) {
		t.Fatalf("ReplaceIntArray(nil) (len below min) = %v, want ErrRange", err)
	}
	v, err := p.ReadIntArray(4)
	if err != nil || v != 5 {
		t.Fatalf("ReadIntArray(4) = %v, %v, want 5, nil", v, err)
	}
}

func TestGetArrayRangeTypeMismatch(t *testing.T) {
	p := NewFloat("gain", 1, 0, 1)
	if _, _, err := p.GetArrayRange(); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("GetArrayRange on scalar property = %v, want ErrTypeMismatch", err)
	}
}

func TestFloatArrayWriteRange(t *testing.T) {
	p := NewFloatArray("window", []float32{0, 0, 0, 0}, 0, 64)
	if err := p.WriteFloatArray(1, 3, []float32{0.5, 0.75}); err != nil {
		t.Fatal(err)
	}
	v, _ := p.ReadFloatArray(2)
	if v != 0.75 {
		t.Fatalf("ReadFloatArray(2) = %v, want 0.75", v)
	}
	if err := p.WriteFloatArray(0, 10, []float32{1}); !errors.Is(err, ErrRange) {
		t.Fatalf("out-of-bounds write = %v, want ErrRange", err)
	}
}

func TestBufferProperty(t *testing.T) {
	p := NewBuffer("source")
	b := &Buffer{Name: "clap.wav", SampleRate: 44100, Channels: 1, Data: [][]float32{make([]float32, 44100)}}
	if err := p.SetBufferValue(b); err != nil {
		t.Fatal(err)
	}
	got, err := p.GetBufferValue()
	if err != nil || got != b {
		t.Fatalf("GetBufferValue = %v, %v", got, err)
	}
	if got.Duration() != 1.0 {
		t.Fatalf("Duration() = %v, want 1.0", got.Duration())
	}
}

func TestResetRestoresDefault(t *testing.T) {
	p := NewFloat3("position", [3]float64{0, 0, 0})
	if err := p.SetFloat3Value([3]float64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if err := p.Reset(); err != nil {
		t.Fatal(err)
	}
	v, _ := p.GetFloat3Value()
	if v != [3]float64{0, 0, 0} {
		t.Fatalf("Reset() left value = %v, want zero vector", v)
	}
}
