package webhook

import (
	"errors"
	"testing"
	"time"
)

func TestVerify_ValidSignature(t *testing.T) {
	secret := "refresh-hook-secret"
	payload := []byte(`{"accountId":"acct1"}`)
	ts := time.Now().Unix()

	sig := Signature(secret, ts, payload)
	if err := Verify(secret, sig, ts, payload, DefaultReplayWindow); err != nil {
		t.Errorf("valid signature rejected: %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	payload := []byte(`{"accountId":"acct1"}`)
	ts := time.Now().Unix()

	sig := Signature("secret-a", ts, payload)
	err := Verify("secret-b", sig, ts, payload, DefaultReplayWindow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	secret := "refresh-hook-secret"
	ts := time.Now().Unix()

	sig := Signature(secret, ts, []byte(`{"accountId":"acct1"}`))
	err := Verify(secret, sig, ts, []byte(`{"accountId":"acct2"}`), DefaultReplayWindow)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_ReplayWindow(t *testing.T) {
	secret := "refresh-hook-secret"
	payload := []byte(`{}`)

	stale := time.Now().Add(-10 * time.Minute).Unix()
	sig := Signature(secret, stale, payload)
	err := Verify(secret, sig, stale, payload, DefaultReplayWindow)
	if !errors.Is(err, ErrReplayWindowExceeded) {
		t.Errorf("err = %v, want ErrReplayWindowExceeded", err)
	}

	future := time.Now().Add(10 * time.Minute).Unix()
	sig = Signature(secret, future, payload)
	err = Verify(secret, sig, future, payload, DefaultReplayWindow)
	if !errors.Is(err, ErrReplayWindowExceeded) {
		t.Errorf("future timestamp: err = %v, want ErrReplayWindowExceeded", err)
	}
}
