package utils

import "testing"

func TestSignature(t *testing.T) {
	payload := []byte(`{"paymentId":1}`)
	sig := GenerateSignature(payload, "s3cret")

	if len(sig) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(sig))
	}
	if !VerifySignature(payload, sig, "s3cret") {
		t.Error("expected signature to verify")
	}
	if !VerifySignature(payload, SignaturePrefix+sig, "s3cret") {
		t.Error("expected prefixed signature to verify")
	}
	if VerifySignature(payload, sig, "other") {
		t.Error("expected wrong secret to fail")
	}
	if VerifySignature([]byte(`{"paymentId":2}`), sig, "s3cret") {
		t.Error("expected modified payload to fail")
	}
}
