package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"
)

// signInitData подписывает пары ключ-значение тем же алгоритмом, что и клиент.
func signInitData(botToken string, fields map[string]string) string {
	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	secretKey := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secretKey[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	botToken := "1234567:test-bot-token"
	fields := map[string]string{
		"auth_date": "1700000000",
		"query_id":  "AAHdF6IQAAAAAN0XohDhrOrc",
		"user":      `{"id":279058397,"first_name":"Vladislav","username":"vdkfrost"}`,
	}

	tests := []struct {
		name     string
		botToken string
		raw      string
		want     bool
	}{
		{
			name:     "valid signature",
			botToken: botToken,
			raw:      signInitData(botToken, fields),
			want:     true,
		},
		{
			name:     "empty bot token",
			botToken: "",
			raw:      signInitData(botToken, fields),
			want:     false,
		},
		{
			name:     "empty payload",
			botToken: botToken,
			raw:      "",
			want:     false,
		},
		{
			name:     "missing hash",
			botToken: botToken,
			raw:      "auth_date=1700000000&query_id=abc",
			want:     false,
		},
		{
			name:     "wrong bot token",
			botToken: "1234567:other-token",
			raw:      signInitData(botToken, fields),
			want:     false,
		},
		{
			name:     "malformed query",
			botToken: botToken,
			raw:      "a=%zz&hash=deadbeef",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyInitData(tt.botToken, tt.raw); got != tt.want {
				t.Errorf("VerifyInitData() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyInitDataTamperedField(t *testing.T) {
	botToken := "1234567:test-bot-token"
	fields := map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":279058397,"first_name":"Vladislav"}`,
	}

	raw := signInitData(botToken, fields)
	if !VerifyInitData(botToken, raw) {
		t.Fatal("untampered payload must verify")
	}

	tampered := strings.Replace(raw, "1700000000", "1700000001", 1)
	if tampered == raw {
		t.Fatal("tampering did not change the payload")
	}
	if VerifyInitData(botToken, tampered) {
		t.Error("tampered payload must not verify")
	}
}

// Пары сортируются как целые строки key=value: "a1=..." идёт раньше "a=...",
// потому что '1' < '='. Сортировка только по ключу дала бы обратный порядок.
func TestVerifyInitDataFullStringSort(t *testing.T) {
	botToken := "1234567:test-bot-token"
	fields := map[string]string{
		"a":  "value",
		"a1": "value",
	}

	raw := signInitData(botToken, fields)
	if !VerifyInitData(botToken, raw) {
		t.Error("payload signed with full-string ordering must verify")
	}

	// Подпись, построенная с сортировкой по ключу, проходить не должна
	secretKey := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secretKey[:])
	mac.Write([]byte("a=value\na1=value"))
	keyOrderHash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	values.Set("a", "value")
	values.Set("a1", "value")
	values.Set("hash", keyOrderHash)

	if VerifyInitData(botToken, values.Encode()) {
		t.Error("payload signed with by-key ordering must not verify")
	}
}
