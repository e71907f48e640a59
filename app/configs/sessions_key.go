package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}
	if env.AppEncKey == "" {
		return nil, fmt.Errorf("APP_ENC_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from base64: %w", err)
	}

	if len(authKey) < 32 {
		return nil, fmt.Errorf("APP_AUTH_KEY must decode to at least 32 bytes, got %d", len(authKey))
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding, must be 16, 24 or 32 bytes", len(encKey))
	}

	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

// GenerateSessionKeys writes fresh APP_AUTH_KEY / APP_ENC_KEY lines to out and,
// when envFilePath is not empty, to that file.
func GenerateSessionKeys(out io.Writer, envFilePath string) error {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return fmt.Errorf("could not generate authentication key")
	}
	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return fmt.Errorf("could not generate encryption key")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey))

	if _, err := io.WriteString(out, lines); err != nil {
		return err
	}
	if envFilePath == "" {
		return nil
	}

	if err := os.WriteFile(envFilePath, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to %s: %w", envFilePath, err)
	}
	fmt.Fprintf(out, "keys written to %s, existing sessions are invalidated once they are in use\n", envFilePath)
	return nil
}
