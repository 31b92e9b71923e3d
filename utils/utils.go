package utils

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"farmhith/types"

	"github.com/gofiber/fiber/v2"
)

// redactedKeys are JSON body fields that never reach the request log.
var redactedKeys = map[string]bool{
	"password":      true,
	"otp":           true,
	"refresh_token": true,
	"access_token":  true,
}

const redacted = "[REDACTED]"

// sanitizeRequestBody drops file content and secrets from a request body before it is logged
func sanitizeRequestBody(c *fiber.Ctx) string {
	contentType := c.Get("Content-Type")
	if strings.Contains(contentType, "multipart/form-data") {
		formData := make(map[string]interface{})

		if form, err := c.MultipartForm(); err == nil {
			for key, values := range form.Value {
				if len(values) > 0 {
					formData[key] = values[0]
				}
			}
			for key, files := range form.File {
				fileInfo := make([]map[string]interface{}, len(files))
				for i, file := range files {
					fileInfo[i] = map[string]interface{}{
						"filename": file.Filename,
						"size":     file.Size,
						"content":  "[FILE_CONTENT_REMOVED]",
					}
				}
				formData[key] = fileInfo
			}
		}

		redactMap(formData)
		if jsonBytes, err := json.Marshal(formData); err == nil {
			return string(jsonBytes)
		}
		return "[MULTIPART_FORM_DATA]"
	}

	return RedactJSON(c.Body())
}

// RedactJSON returns body with secret fields replaced. Binary bodies and non-JSON bodies
// over 1000 bytes that look like encoded files are replaced entirely.
func RedactJSON(body []byte) string {
	if !utf8.Valid(body) {
		return "[BINARY_CONTENT]"
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		s := string(body)
		if len(s) > 1000 && (strings.Contains(s, "data:image/") || isLikelyBase64(s)) {
			return "[LARGE_REQUEST_BODY_WITH_POSSIBLE_FILE_CONTENT]"
		}
		return s
	}

	redactValue(payload)
	out, err := json.Marshal(payload)
	if err != nil {
		return string(body)
	}
	return string(out)
}

func redactValue(v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		redactMap(val)
	case []interface{}:
		for _, item := range val {
			redactValue(item)
		}
	}
}

func redactMap(m map[string]interface{}) {
	for k, v := range m {
		if redactedKeys[strings.ToLower(k)] {
			m[k] = redacted
			continue
		}
		redactValue(v)
	}
}

// isLikelyBase64 detects if content looks like base64
func isLikelyBase64(content string) bool {
	if len(content) < 100 {
		return false
	}

	base64Chars := 0
	for _, char := range content {
		if (char >= 'A' && char <= 'Z') ||
			(char >= 'a' && char <= 'z') ||
			(char >= '0' && char <= '9') ||
			char == '+' || char == '/' || char == '=' {
			base64Chars++
		}
	}

	return float64(base64Chars)/float64(len(content)) > 0.8
}

// CreateSanitizedLogEntry creates a deep copied and sanitized log entry for logging.
// Response bodies carrying session tokens are redacted as well.
func CreateSanitizedLogEntry(c *fiber.Ctx) types.LogEntry {
	method := string([]byte(c.Method()))
	url := string([]byte(c.OriginalURL()))
	requestBody := sanitizeRequestBody(c)
	responseBody := RedactJSON(append([]byte(nil), c.Response().Body()...))

	requestHeaders := make([]byte, len(c.Request().Header.Header()))
	copy(requestHeaders, c.Request().Header.Header())

	responseHeaders := make([]byte, len(c.Response().Header.Header()))
	copy(responseHeaders, c.Response().Header.Header())

	return types.LogEntry{
		Method:          method,
		URL:             url,
		RequestBody:     requestBody,
		ResponseBody:    responseBody,
		RequestHeaders:  redactAuthorization(string(requestHeaders)),
		ResponseHeaders: string(responseHeaders),
		StatusCode:      c.Response().StatusCode(),
		CreatedAt:       time.Now(),
	}
}

// redactAuthorization blanks the bearer token in a raw header block.
func redactAuthorization(headers string) string {
	lines := strings.Split(headers, "\r\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			lines[i] = "Authorization: " + redacted
		}
	}
	return strings.Join(lines, "\r\n")
}
