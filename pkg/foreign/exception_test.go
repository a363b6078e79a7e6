package foreign

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExceptionInfoRoundtrip(t *testing.T) {
	want := ExceptionInfo{
		ClassName:  "System.NullReferenceException",
		Message:    "Object reference not set to an instance of an object.",
		StackTrace: "at Game.Player.TakeDamage(Int32 amount)",
	}
	payload, err := EncodeExceptionInfo(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeExceptionInfo(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeExceptionInfoGarbage(t *testing.T) {
	if _, err := DecodeExceptionInfo([]byte{0xc1, 0xff, 0x00}); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestExceptionInfoString(t *testing.T) {
	cases := []struct {
		info ExceptionInfo
		want string
	}{
		{ExceptionInfo{ClassName: "System.Exception", Message: "boom"}, "System.Exception: boom"},
		{ExceptionInfo{ClassName: "System.Exception"}, "System.Exception"},
	}
	for _, tc := range cases {
		if got := tc.info.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
