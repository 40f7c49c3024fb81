package newsletter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindspace/internal/auth"
	"github.com/mindspace/internal/db"
	"github.com/mindspace/internal/email"
)

type fakeMailer struct {
	sent []email.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg email.Message) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, msg)
	return "msg-1", nil
}

func newTestService(t *testing.T, mailer Mailer, tokens *auth.Signer) (*Service, *SQLStore) {
	t.Helper()
	conn, dialect, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	store := NewSQLStore(conn, dialect)
	return NewService(store, mailer, tokens, BrandFor("mindspace"), "", zerolog.Nop()), store
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  error
	}{
		{"  Someone@Example.COM ", "someone@example.com", nil},
		{"", "", ErrEmailRequired},
		{"   ", "", ErrEmailRequired},
		{"no-at-sign.com", "", ErrInvalidEmail},
		{"a@b.c", "", ErrInvalidEmail},
		{"first.last+tag@sub.domain.org", "first.last+tag@sub.domain.org", nil},
	}
	for _, tt := range tests {
		got, err := NormalizeEmail(tt.in)
		if !errors.Is(err, tt.err) || got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, %v; want %q, %v", tt.in, got, err, tt.want, tt.err)
		}
	}
}

func TestSubscribeFlow(t *testing.T) {
	mailer := &fakeMailer{}
	svc, store := newTestService(t, mailer, auth.NewSigner("secret"))
	ctx := context.Background()

	res, err := svc.Subscribe(ctx, " Reader@Example.com")
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if res.AlreadySubscribed || res.Message != MsgSubscribed {
		t.Fatalf("result = %+v", res)
	}

	sub, err := store.Lookup(ctx, "reader@example.com")
	if err != nil || sub == nil {
		t.Fatalf("Lookup = %v, %v", sub, err)
	}
	if !sub.Confirmed || sub.Source != "mindspace" {
		t.Fatalf("subscriber = %+v", sub)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("sent %d emails", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.From != "MindSpace <hello@mindspace.site>" || msg.Subject != "Welcome to MindSpace Newsletter!" {
		t.Fatalf("message header = %q / %q", msg.From, msg.Subject)
	}
	if !strings.Contains(msg.HTML, "/api/newsletter/unsubscribe?token=") {
		t.Fatal("welcome email has no unsubscribe link")
	}

	res, err = svc.Subscribe(ctx, "reader@example.com")
	if err != nil {
		t.Fatalf("second Subscribe: %v", err)
	}
	if !res.AlreadySubscribed || res.Message != MsgAlreadySubscribed {
		t.Fatalf("second result = %+v", res)
	}
	if len(mailer.sent) != 1 {
		t.Fatal("already subscribed address was emailed again")
	}
}

func TestSubscribeMailFailureIsNotSurfaced(t *testing.T) {
	svc, _ := newTestService(t, &fakeMailer{err: errors.New("smtp down")}, nil)
	res, err := svc.Subscribe(context.Background(), "a@b.co")
	if err != nil || res.Message != MsgSubscribed {
		t.Fatalf("Subscribe = %+v, %v", res, err)
	}
}

func TestSubscribeWithoutStore(t *testing.T) {
	svc := NewService(nil, nil, nil, BrandFor(""), "", zerolog.Nop())
	if _, err := svc.Subscribe(context.Background(), "a@b.co"); !errors.Is(err, ErrNoDatabase) {
		t.Fatalf("err = %v", err)
	}
}

func TestUnsubscribeAndResubscribe(t *testing.T) {
	signer := auth.NewSigner("secret")
	mailer := &fakeMailer{}
	svc, store := newTestService(t, mailer, signer)
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, "a@b.co"); err != nil {
		t.Fatal(err)
	}
	token, err := signer.GenerateToken("a@b.co")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Unsubscribe(ctx, token); err != nil {
		t.Fatalf("Unsubscribe: %v", err)
	}
	sub, err := store.Lookup(ctx, "a@b.co")
	if err != nil || sub == nil || sub.Confirmed {
		t.Fatalf("after unsubscribe = %+v, %v", sub, err)
	}

	// Repeating the link is harmless.
	if err := svc.Unsubscribe(ctx, token); err != nil {
		t.Fatalf("second Unsubscribe: %v", err)
	}

	res, err := svc.Subscribe(ctx, "a@b.co")
	if err != nil || res.AlreadySubscribed {
		t.Fatalf("resubscribe = %+v, %v", res, err)
	}
	sub, _ = store.Lookup(ctx, "a@b.co")
	if sub == nil || !sub.Confirmed {
		t.Fatalf("after resubscribe = %+v", sub)
	}

	if err := svc.Unsubscribe(ctx, "bogus"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("bogus token err = %v", err)
	}
}

func TestRenderWelcomeBrands(t *testing.T) {
	for _, key := range []string{"mindbalance", "mindspace"} {
		b := BrandFor(key)
		html, err := renderWelcome(b, "")
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		if !strings.Contains(html, b.Name) || !strings.Contains(html, b.Color) {
			t.Errorf("%s: brand missing from email", key)
		}
		if strings.Contains(html, "Unsubscribe") {
			t.Errorf("%s: unsubscribe link rendered without token", key)
		}
	}
	if BrandFor("unknown").Key != "mindbalance" {
		t.Fatal("unknown brand should default to mindbalance")
	}
}
