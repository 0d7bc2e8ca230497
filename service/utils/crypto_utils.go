/*
 * @module service/utils/crypto_utils
 * @description 加密工具:配置载荷静态加密与API密钥哈希
 * @architecture 分层架构 - 工具层
 * @documentReference docs/security.md
 * @stateFlow 密钥派生 -> 载荷加密/解密;密钥生成 -> bcrypt哈希 -> 校验
 * @rules 加密密钥来自 CONFIG_ENCRYPTION_KEY,经SHA-256派生为32字节;
 *        密文为 base64(IV + AES-CFB流);API密钥只存bcrypt哈希与前缀
 * @dependencies crypto/aes, crypto/cipher, golang.org/x/crypto/bcrypt
 * @refs service/configstore/config_service.go, api/middleware/apikey_auth.go
 */
package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// deriveKey 从任意长度的密钥字符串派生32字节AES密钥
func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// EncryptPayload 加密配置载荷,返回 base64(IV + 密文)
func EncryptPayload(plaintext []byte, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("加密密钥为空")
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", fmt.Errorf("创建加密器失败: %v", err)
	}

	ciphertext := make([]byte, aes.BlockSize+len(plaintext))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("生成IV失败: %v", err)
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], plaintext)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptPayload 解密配置载荷
func DecryptPayload(encoded, secret string) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("加密密钥为空")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64解码失败: %v", err)
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, fmt.Errorf("密文长度不足")
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return nil, fmt.Errorf("创建解密器失败: %v", err)
	}

	iv := ciphertext[:aes.BlockSize]
	plaintext := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(plaintext, ciphertext[aes.BlockSize:])

	return plaintext, nil
}

// GenerateAPIKey 生成新的API密钥,返回明文密钥与展示用前缀。
// 明文只在创建响应里出现一次,之后无法找回。
func GenerateAPIKey() (key string, prefix string) {
	raw := uuid.New().String() + uuid.New().String()
	sum := sha256.Sum256([]byte(raw))
	key = "pk_" + hex.EncodeToString(sum[:])[:48]
	prefix = key[:11]
	return key, prefix
}

// HashAPIKey 对API密钥做bcrypt哈希
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("密钥哈希失败: %v", err)
	}
	return string(hash), nil
}

// VerifyAPIKey 校验API密钥与哈希是否匹配
func VerifyAPIKey(key, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// SHA256Hex 计算字符串的SHA-256十六进制摘要
func SHA256Hex(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// MaskSecret 遮蔽敏感字符串,只保留前后各4位
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****" + secret[len(secret)-4:]
}
