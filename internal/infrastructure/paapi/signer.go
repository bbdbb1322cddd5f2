package paapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

const (
	signingAlgorithm = "AWS4-HMAC-SHA256"
	serviceName      = "ProductAdvertisingAPI"
)

// signRequest produces the Authorization header value for a Product
// Advertising API call using AWS Signature Version 4.
//
// The canonical request binds method, path, an empty query string, the
// sorted lowercased header block, the sorted signed-header-name list
// and the payload hash. The string-to-sign covers the algorithm id,
// request timestamp, credential scope and the canonical request hash.
// The signing key is derived by chaining HMAC-SHA256 over date, region,
// service and the terminal "aws4_request" marker.
func signRequest(accessKey, secretKey, region, method, path, body string, headers map[string]string, date, amzDate string) string {
	// Task 1: canonical request
	signedNames := make([]string, 0, len(headers))
	canonical := make(map[string]string, len(headers))
	for name, value := range headers {
		lower := strings.ToLower(name)
		canonical[lower] = strings.TrimSpace(value)
		signedNames = append(signedNames, lower)
	}
	sort.Strings(signedNames)

	var headerBlock strings.Builder
	for _, name := range signedNames {
		headerBlock.WriteString(name)
		headerBlock.WriteString(":")
		headerBlock.WriteString(canonical[name])
		headerBlock.WriteString("\n")
	}

	signedHeaders := strings.Join(signedNames, ";")
	payloadHash := hashSHA256(body)

	canonicalRequest := strings.Join([]string{
		method,
		path,
		"", // query string, always empty for POST bodies
		headerBlock.String(),
		signedHeaders,
		payloadHash,
	}, "\n")

	// Task 2: string to sign
	credentialScope := fmt.Sprintf("%s/%s/%s/aws4_request", date, region, serviceName)
	stringToSign := strings.Join([]string{
		signingAlgorithm,
		amzDate,
		credentialScope,
		hashSHA256(canonicalRequest),
	}, "\n")

	// Task 3: derive the signing key and sign
	kDate := hmacSHA256([]byte("AWS4"+secretKey), date)
	kRegion := hmacSHA256(kDate, region)
	kService := hmacSHA256(kRegion, serviceName)
	kSigning := hmacSHA256(kService, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(kSigning, stringToSign))

	// Task 4: assemble the Authorization header
	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		signingAlgorithm, accessKey, credentialScope, signedHeaders, signature)
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

func hashSHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
