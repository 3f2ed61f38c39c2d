package line_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"line-calendar-bot/pkg/line"
)

func TestPushMessage(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := line.NewClient("test-token")
	client.SetAPIURL(server.URL)

	if err := client.PushMessage("U123", "こんにちは"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["to"] != "U123" {
		t.Errorf("to = %v", gotBody["to"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
}

func TestPushMessageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer server.Close()

	client := line.NewClient("bad-token")
	client.SetAPIURL(server.URL)

	if err := client.PushMessage("U123", "hi"); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	valid := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	t.Run("Valid", func(t *testing.T) {
		if err := line.ValidateSignature(secret, valid, body); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Tampered Body", func(t *testing.T) {
		if err := line.ValidateSignature(secret, valid, []byte(`{"events":[{}]}`)); err == nil {
			t.Error("expected mismatch error")
		}
	})

	t.Run("Missing Signature", func(t *testing.T) {
		if err := line.ValidateSignature(secret, "", body); err == nil {
			t.Error("expected error for missing signature")
		}
	})

	t.Run("Bad Encoding", func(t *testing.T) {
		if err := line.ValidateSignature(secret, "!!!not-base64!!!", body); err == nil {
			t.Error("expected error for bad encoding")
		}
	})
}
