package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrSealedFormat = errors.New("invalid sealed value format")

// KeyConfig Argon2密钥派生配置
type KeyConfig struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultKeyConfig 默认配置
var DefaultKeyConfig = &KeyConfig{
	Time:    1,
	Memory:  19 * 1024,
	Threads: 2,
}

const sealedScheme = "xchacha20"

// Sealer 使用本地密钥加密持久化的凭证
type Sealer struct {
	secret []byte
	config *KeyConfig
}

// NewSealer 创建加密器，secret为空时返回nil（不加密）
func NewSealer(secret string) *Sealer {
	if secret == "" {
		return nil
	}
	return &Sealer{secret: []byte(secret), config: DefaultKeyConfig}
}

func (s *Sealer) deriveKey(salt []byte, cfg *KeyConfig) []byte {
	return argon2.IDKey(s.secret, salt, cfg.Time, cfg.Memory, cfg.Threads, chacha20poly1305.KeySize)
}

// Seal 加密明文
// 输出格式: $xchacha20$v=19$m=19456,t=1,p=2$salt$nonce+ciphertext
func (s *Sealer) Seal(plaintext string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt, s.config))
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	payload := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		sealedScheme, argon2.Version, s.config.Memory, s.config.Time, s.config.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(payload)), nil
}

// Open 解密
func (s *Sealer) Open(encoded string) (string, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != sealedScheme {
		return "", ErrSealedFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return "", err
	}
	if version != argon2.Version {
		return "", fmt.Errorf("incompatible argon2 version")
	}

	cfg := &KeyConfig{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &cfg.Memory, &cfg.Time, &cfg.Threads); err != nil {
		return "", err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return "", err
	}
	payload, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return "", err
	}

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt, cfg))
	if err != nil {
		return "", err
	}
	if len(payload) < aead.NonceSize() {
		return "", ErrSealedFormat
	}

	nonce, ciphertext := payload[:aead.NonceSize()], payload[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// IsSealed 判断是否为加密后的值
func IsSealed(value string) bool {
	return strings.HasPrefix(value, "$"+sealedScheme+"$")
}
