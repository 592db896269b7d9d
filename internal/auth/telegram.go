package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyInitData проверяет подпись initData из Telegram WebApp.
// Возвращает false при пустых аргументах, ошибке разбора, отсутствии hash
// или несовпадении подписи. Побочных эффектов нет.
func VerifyInitData(botToken, raw string) bool {
	if botToken == "" || raw == "" {
		return false
	}

	params, err := url.ParseQuery(raw)
	if err != nil {
		return false
	}

	hash := params.Get("hash")
	if hash == "" {
		return false
	}
	params.Del("hash")

	// data_check_string: строки key=value, отсортированные как целые строки
	// (не по ключу). Порядок должен совпадать с проверкой на стороне бэкенда
	// предыдущей версии, иначе уже выданные клиенты перестанут проходить вход.
	pairs := make([]string, 0, len(params))
	for key, values := range params {
		for _, value := range values {
			pairs = append(pairs, key+"="+value)
		}
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	// secret_key = SHA256(bot_token)
	secretKey := sha256.Sum256([]byte(botToken))

	mac := hmac.New(sha256.New, secretKey[:])
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(hash)))
}
