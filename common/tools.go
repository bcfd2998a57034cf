package common

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Alphabet is the URL-safe alphabet used for nanoid generation and token
// transport encoding.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// StringToUUID5 derives a stable UUIDv5 from an arbitrary string. Subject
// identifiers are derived this way from messaging-platform user IDs so raw
// IDs never appear in URLs or logs.
func StringToUUID5(str string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(str)).String()
}

// HomeExpand expands a leading '~' with the user home directory.
func HomeExpand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// HostInAllowlist reports whether rawURL points at one of the allow-listed
// domains (exact host match or subdomain).
func HostInAllowlist(rawURL string, allowlist []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	if host == "" {
		return false
	}
	for _, domain := range allowlist {
		domain = strings.TrimSpace(domain)
		if domain == "" {
			continue
		}
		if strings.EqualFold(host, domain) || strings.HasSuffix(strings.ToLower(host), "."+strings.ToLower(domain)) {
			return true
		}
	}
	return false
}

func Deduplicate(list []string) []string {
	res := make([]string, 0, len(list))
	m := make(map[string]struct{})
	for _, v := range list {
		if _, ok := m[v]; ok {
			continue
		}
		m[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

// BuildDeepLink builds the t.me deep link that reopens the bot with a start
// parameter.
func BuildDeepLink(botUsername string, startParam string) string {
	return fmt.Sprintf("https://t.me/%v?start=%v", botUsername, url.QueryEscape(startParam))
}
