package otp

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"unsafe"

	"github.com/artconnect/marketplace/internal/testutil"
)

type recordingSender struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (r *recordingSender) Send(_ context.Context, phone, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sent == nil {
		r.sent = make(map[string]string)
	}
	r.sent[phone] = code
	return r.err
}

// sequence returns a generator yielding codes in order.
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		c := codes[i%len(codes)]
		i++
		return c, nil
	}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory":   NewMemoryStore(),
		"database": NewDBStore(testutil.NewDB(t)),
	}
}

func TestRandomCodeRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := RandomCode()
		if err != nil {
			t.Fatalf("random code: %v", err)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("expected numeric code, got %q", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("expected code in [1000, 9999], got %d", n)
		}
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, &recordingSender{}, WithGenerator(sequence("4321")))

			if err := m.RequestCode(ctx, "+1555"); err != nil {
				t.Fatalf("request: %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "4321"); err != nil {
				t.Fatalf("expected first verify to succeed, got %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "4321"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected ErrInvalidCode on reuse, got %v", err)
			}
		})
	}
}

func TestNewCodeInvalidatesPrevious(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, &recordingSender{}, WithGenerator(sequence("1111", "2222")))

			if err := m.RequestCode(ctx, "+1555"); err != nil {
				t.Fatalf("request: %v", err)
			}
			if err := m.RequestCode(ctx, "+1555"); err != nil {
				t.Fatalf("request: %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "1111"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected first code to be invalid, got %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "2222"); err != nil {
				t.Fatalf("expected second code to verify, got %v", err)
			}
		})
	}
}

func TestMismatchKeepsPendingCode(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, &recordingSender{}, WithGenerator(sequence("4321")))

			if err := m.RequestCode(ctx, "+1555"); err != nil {
				t.Fatalf("request: %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "0000"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected ErrInvalidCode, got %v", err)
			}
			if err := m.VerifyCode(ctx, "+1999", "4321"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected ErrInvalidCode for another phone, got %v", err)
			}
			if err := m.VerifyCode(ctx, "+1555", "4321"); err != nil {
				t.Fatalf("expected retry with correct code to succeed, got %v", err)
			}
		})
	}
}

func TestCheckCodeDoesNotConsume(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			m := NewManager(store, &recordingSender{}, WithGenerator(sequence("4321")))

			if err := m.RequestCode(ctx, "+1555"); err != nil {
				t.Fatalf("request: %v", err)
			}
			if err := m.CheckCode(ctx, "+1555", "0000"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected ErrInvalidCode, got %v", err)
			}
			for i := 0; i < 2; i++ {
				if err := m.CheckCode(ctx, "+1555", "4321"); err != nil {
					t.Fatalf("check %d: expected match, got %v", i, err)
				}
			}
			if err := m.VerifyCode(ctx, "+1555", "4321"); err != nil {
				t.Fatalf("expected code still pending after checks, got %v", err)
			}
			if err := m.CheckCode(ctx, "+1555", "4321"); !errors.Is(err, ErrInvalidCode) {
				t.Fatalf("expected ErrInvalidCode after consume, got %v", err)
			}
		})
	}
}

func TestDeliveryFailureIsSwallowed(t *testing.T) {
	store := NewMemoryStore()
	sender := &recordingSender{err: errors.New("trial account")}
	m := NewManager(store, sender, WithGenerator(sequence("4321")))

	if err := m.RequestCode(context.Background(), "+1555"); err != nil {
		t.Fatalf("expected delivery failure to be swallowed, got %v", err)
	}
	if code, ok := store.Pending("+1555"); !ok || code != "4321" {
		t.Fatalf("expected pending code 4321, got %q (%v)", code, ok)
	}
	if sender.sent["+1555"] != "4321" {
		t.Fatalf("expected sender to receive 4321, got %q", sender.sent["+1555"])
	}
}

func TestUnconfiguredSender(t *testing.T) {
	err := UnconfiguredSender{}.Send(context.Background(), "+1555", "1234")
	if !errors.Is(err, ErrSMSNotConfigured) {
		t.Fatalf("expected ErrSMSNotConfigured, got %v", err)
	}
}

func TestDBStoreHashesCodes(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewDBStore(db)
	ctx := context.Background()

	if err := store.Put(ctx, "+1555", "4321"); err != nil {
		t.Fatalf("put: %v", err)
	}
	var hash string
	if err := db.Table("otp_codes").Select("code_hash").Where("phone = ?", "+1555").Scan(&hash).Error; err != nil {
		t.Fatalf("read hash: %v", err)
	}
	if hash == "" || hash == "4321" {
		t.Fatalf("expected a bcrypt hash, got %q", hash)
	}
}

func TestMessageBody(t *testing.T) {
	if got := MessageBody("4321"); got != "Your ArtConnect Login Code is: 4321" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestMemoryStoreCopiesKeys(t *testing.T) {
	// phone aliases buf the way fasthttp request values alias pooled memory.
	buf := []byte("+15550001")
	phone := unsafe.String(&buf[0], len(buf))

	s := NewMemoryStore()
	if err := s.Put(context.Background(), phone, "1234"); err != nil {
		t.Fatalf("put: %v", err)
	}
	copy(buf, "+99999999")

	code, ok := s.Pending("+15550001")
	if !ok || code != "1234" {
		t.Fatalf("expected pending code 1234, got %q (ok=%v)", code, ok)
	}
}
