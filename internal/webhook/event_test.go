package webhook

import (
	"errors"
	"testing"

	"github.com/leozw/clerk-user-sync/internal/core"
)

func TestDecode_UserCreatedDefaults(t *testing.T) {
	body := []byte(`{"type":"user.created","data":{"id":"u1","email_addresses":[{"email_address":"a@b.com"},{"email_address":"c@d.com"}],"username":"bob"}}`)

	evt, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	created, ok := evt.(UserCreated)
	if !ok {
		t.Fatalf("expected UserCreated, got %T", evt)
	}
	want := core.UserEvent{ClerkID: "u1", Email: "a@b.com", Username: "bob"}
	if created.User != want {
		t.Fatalf("unexpected user event: %+v", created.User)
	}
}

func TestDecode_UserCreatedWithoutEmailOrNulls(t *testing.T) {
	body := []byte(`{"type":"user.created","data":{"id":"u2","email_addresses":[],"username":null,"first_name":null,"last_name":"Smith","image_url":"https://img.example/u2.png"}}`)

	evt, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	created := evt.(UserCreated)
	want := core.UserEvent{ClerkID: "u2", LastName: "Smith", Photo: "https://img.example/u2.png"}
	if created.User != want {
		t.Fatalf("unexpected user event: %+v", created.User)
	}
}

func TestDecode_UserUpdatedIgnoresEmail(t *testing.T) {
	body := []byte(`{"type":"user.updated","data":{"id":"u1","email_addresses":[{"email_address":"new@b.com"}],"first_name":"Bob","image_url":"p.png"}}`)

	evt, err := Decode(body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	updated, ok := evt.(UserUpdated)
	if !ok {
		t.Fatalf("expected UserUpdated, got %T", evt)
	}
	if updated.ClerkID != "u1" {
		t.Fatalf("expected clerk id u1, got %q", updated.ClerkID)
	}
	want := core.UserUpdate{FirstName: "Bob", Photo: "p.png"}
	if updated.Update != want {
		t.Fatalf("unexpected update: %+v", updated.Update)
	}
}

func TestDecode_UserDeleted(t *testing.T) {
	evt, err := Decode([]byte(`{"type":"user.deleted","data":{"id":"u9","deleted":true,"object":"user"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if deleted, ok := evt.(UserDeleted); !ok || deleted.ClerkID != "u9" {
		t.Fatalf("unexpected event: %#v", evt)
	}
}

func TestDecode_UnknownTypeIsUnhandled(t *testing.T) {
	evt, err := Decode([]byte(`{"type":"session.created","data":{"id":"sess_1"}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	unhandled, ok := evt.(Unhandled)
	if !ok {
		t.Fatalf("expected Unhandled, got %T", evt)
	}
	if unhandled.EventType() != "session.created" {
		t.Fatalf("unexpected type %q", unhandled.EventType())
	}
}

func TestDecode_MissingID(t *testing.T) {
	for _, typ := range []string{TypeUserCreated, TypeUserUpdated, TypeUserDeleted} {
		_, err := Decode([]byte(`{"type":"` + typ + `","data":{"username":"bob"}}`))
		var missing *MissingIDError
		if !errors.As(err, &missing) {
			t.Fatalf("%s: expected MissingIDError, got %v", typ, err)
		}
		if missing.EventType != typ {
			t.Fatalf("%s: error names %q", typ, missing.EventType)
		}
	}

	_, err := Decode([]byte(`{"type":"user.deleted","data":null}`))
	var missing *MissingIDError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingIDError for null data, got %v", err)
	}
}

func TestDecode_MalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
	if _, err := Decode([]byte(`{"type":"user.created","data":"oops"}`)); err == nil {
		t.Fatalf("expected error for non-object data")
	}
}
