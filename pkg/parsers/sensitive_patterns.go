package parsers

import (
	"regexp"
	"strings"
)

type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
}

var defaultPatterns = []SensitivePattern{
	{Name: "PrivateKey", Regex: regexp.MustCompile(`(?im)^\s*PrivateKey\s*=\s*(\S+)`), Description: "WireGuard interface private key"},
	{Name: "PresharedKey", Regex: regexp.MustCompile(`(?im)^\s*PresharedKey\s*=\s*(\S+)`), Description: "WireGuard peer preshared key"},
	{Name: "key", Regex: regexp.MustCompile(`(?is)<key>\s*(.+?)\s*</key>`), Description: "OpenVPN inline private key"},
	{Name: "tls-auth", Regex: regexp.MustCompile(`(?is)<tls-auth>\s*(.+?)\s*</tls-auth>`), Description: "OpenVPN inline TLS auth key"},
	{Name: "tls-crypt", Regex: regexp.MustCompile(`(?is)<tls-crypt>\s*(.+?)\s*</tls-crypt>`), Description: "OpenVPN inline TLS crypt key"},
	{Name: "auth-user-pass", Regex: regexp.MustCompile(`(?is)<auth-user-pass>\s*(.+?)\s*</auth-user-pass>`), Description: "OpenVPN inline credentials"},
}

type SensitiveMatch struct {
	Name        string
	Description string
}

// FindSecrets lists the secret fields present in a tunnel config.
func FindSecrets(content string) []SensitiveMatch {
	var matches []SensitiveMatch
	for _, p := range defaultPatterns {
		for range p.Regex.FindAllStringIndex(content, -1) {
			matches = append(matches, SensitiveMatch{Name: p.Name, Description: p.Description})
		}
	}
	return matches
}

// Redact masks every secret value so a config can be logged or displayed.
func Redact(content string) string {
	for _, p := range defaultPatterns {
		content = p.Regex.ReplaceAllStringFunc(content, func(m string) string {
			sub := p.Regex.FindStringSubmatch(m)
			if len(sub) < 2 || sub[1] == "" {
				return m
			}
			return strings.Replace(m, sub[1], "[REDACTED]", 1)
		})
	}
	return content
}
