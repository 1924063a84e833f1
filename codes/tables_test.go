package codes

import "testing"

func TestTypeToStringKnown(t *testing.T) {
	if got := TypeToString(TypeMX); got != "MX" {
		t.Fatalf("TypeToString(MX) = %q, want MX", got)
	}
}

func TestTypeToStringUnknown(t *testing.T) {
	if got := TypeToString(65280); got != "TYPE65280" {
		t.Fatalf("TypeToString(65280) = %q, want TYPE65280", got)
	}
}

func TestStringToTypeRoundTrip(t *testing.T) {
	tcode, ok := StringToType("AAAA")
	if !ok || tcode != TypeAAAA {
		t.Fatalf("StringToType(AAAA) = (%d, %v), want (%d, true)", tcode, ok, TypeAAAA)
	}
}

func TestRcodeToString(t *testing.T) {
	if got := RcodeToString(RcodeNameError); got != "NXDOMAIN" {
		t.Fatalf("RcodeToString(NXDOMAIN) = %q", got)
	}
	if got := RcodeToString(999); got != "RCODE999" {
		t.Fatalf("RcodeToString(999) = %q, want RCODE999", got)
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := New(Network, "connection refused")
	wrapped := Wrap(Network, "dial nameserver", cause)
	if wrapped.Unwrap() != cause {
		t.Fatalf("Unwrap() did not return the original cause")
	}
	if wrapped.Kind != Network {
		t.Fatalf("wrapped.Kind = %v, want Network", wrapped.Kind)
	}
}

func TestRcodeError(t *testing.T) {
	err := RcodeError(RcodeRefused)
	if err.Kind != ResponseInvalid {
		t.Fatalf("RcodeError kind = %v, want ResponseInvalid", err.Kind)
	}
	if err.Rcode != RcodeRefused {
		t.Fatalf("RcodeError rcode = %d, want %d", err.Rcode, RcodeRefused)
	}
}
