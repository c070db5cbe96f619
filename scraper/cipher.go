package scraper

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
)

// The portal's login page encrypts the password client-side with this fixed
// key, reused as the IV.
var portalKey = []byte("8701661282118308")

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// EncryptPassword reproduces the login page's AES-CBC password encoding.
func EncryptPassword(plain string) (string, error) {
	block, err := aes.NewCipher(portalKey)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, portalKey).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}
