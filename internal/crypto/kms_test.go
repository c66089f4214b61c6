package crypto

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/googleapis/gax-go/v2"

	"github.com/GregMSThompson/finance-assistant/internal/errs"
)

// reverseKMS "encrypts" by reversing bytes.
type reverseKMS struct {
	keyName string
	err     error
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func (r *reverseKMS) Encrypt(_ context.Context, req *kmspb.EncryptRequest, _ ...gax.CallOption) (*kmspb.EncryptResponse, error) {
	r.keyName = req.Name
	if r.err != nil {
		return nil, r.err
	}
	return &kmspb.EncryptResponse{Ciphertext: reverse(req.Plaintext)}, nil
}

func (r *reverseKMS) Decrypt(_ context.Context, req *kmspb.DecryptRequest, _ ...gax.CallOption) (*kmspb.DecryptResponse, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &kmspb.DecryptResponse{Plaintext: reverse(req.Ciphertext)}, nil
}

func TestKMSRoundTrip(t *testing.T) {
	fake := &reverseKMS{}
	k := &kms{client: fake, keyName: "projects/p/locations/l/keyRings/r/cryptoKeys/notes"}

	ct, err := k.Encrypt(context.Background(), "lembrar de cancelar a academia")
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if fake.keyName != k.keyName {
		t.Fatalf("key name not passed: %q", fake.keyName)
	}
	pt, err := k.Decrypt(context.Background(), ct)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if pt != "lembrar de cancelar a academia" {
		t.Fatalf("round trip mismatch: %q", pt)
	}
}

func TestKMSErrorsAreEncryptionErrors(t *testing.T) {
	k := &kms{client: &reverseKMS{err: errors.New("denied")}, keyName: "k"}

	var encErr *errs.EncryptionError
	if _, err := k.Encrypt(context.Background(), "x"); !errors.As(err, &encErr) {
		t.Fatalf("expected encryption error, got %v", err)
	}
	if _, err := k.Decrypt(context.Background(), "%%%"); !errors.As(err, &encErr) {
		t.Fatalf("expected encryption error for bad base64, got %v", err)
	}
}
