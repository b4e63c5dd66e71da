package nfa

import "testing"

func TestHandle_Sentinels(t *testing.T) {
	if !NoState[uint32]().IsNone() {
		t.Error("NoState should be none")
	}
	if !NoTransition[uint16]().IsNone() {
		t.Error("NoTransition should be none")
	}
	if !NoCapture[uint8]().IsNone() {
		t.Error("NoCapture should be none")
	}
	if !NoName[uint64]().IsNone() {
		t.Error("NoName should be none")
	}
	if !NoMarker[uint32]().IsNone() {
		t.Error("NoMarker should be none")
	}

	if MakeStateID[uint32](0).IsNone() {
		t.Error("state 0 must be a valid handle")
	}
	if got := MakeStateID[uint32](42).Index(); got != 42 {
		t.Errorf("Index() = %d, want 42", got)
	}
}

func TestHandle_String(t *testing.T) {
	if got := MakeStateID[uint32](7).String(); got != "state(7)" {
		t.Errorf("String() = %q", got)
	}
	if got := NoState[uint32]().String(); got != "state(none)" {
		t.Errorf("String() = %q", got)
	}
	if got := MakeCaptureID[uint16](3).String(); got != "capture(3)" {
		t.Errorf("String() = %q", got)
	}
	if got := NoMarker[uint8]().String(); got != "marker(none)" {
		t.Errorf("String() = %q", got)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	orig := MakeStateID[uint32](1000)
	narrow := ConvertState[uint16](orig)
	if narrow.Index() != 1000 {
		t.Fatalf("narrowed Index() = %d, want 1000", narrow.Index())
	}
	wide := ConvertState[uint64](narrow)
	if wide.Index() != 1000 {
		t.Fatalf("widened Index() = %d, want 1000", wide.Index())
	}
}

func TestConvert_SentinelRemaps(t *testing.T) {
	if !ConvertState[uint8](NoState[uint32]()).IsNone() {
		t.Error("narrowed sentinel should stay none")
	}
	if !ConvertName[uint64](NoName[uint8]()).IsNone() {
		t.Error("widened sentinel should stay none")
	}
	if !ConvertCapture[uint16](NoCapture[uint32]()).IsNone() {
		t.Error("narrowed capture sentinel should stay none")
	}
}

func TestConvert_OverflowPanics(t *testing.T) {
	mustPanic := func(name string, f func()) {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			f()
		})
	}

	mustPanic("value too large", func() {
		ConvertState[uint8](MakeStateID[uint32](300))
	})
	// 255 fits in a byte but is uint8's invalid sentinel.
	mustPanic("sentinel collision", func() {
		ConvertState[uint8](MakeStateID[uint32](255))
	})
	mustPanic("transition too large", func() {
		ConvertTransition[uint16](MakeTransitionID[uint32](1 << 20))
	})
}
