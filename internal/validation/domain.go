package validation

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeDomain normaliza un dominio para la allow-list:
// lowercase, sin esquema, sin path, sin puerto, sin punto final.
// Devuelve "" si no queda un hostname usable.
func NormalizeDomain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Si viene con esquema, parsear como URL y quedarse con el host.
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
			s = u.Hostname()
		}
	}

	// Descartar path/query si vinieron sin esquema.
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}

	// Quitar puerto.
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}

	s = strings.TrimSuffix(s, ".")
	if s == "" || strings.ContainsAny(s, " \t") {
		return ""
	}
	return s
}

// HostMatchesDomain indica si host es exactamente domain o un subdominio
// (termina en "."+domain). Ambos deben venir ya normalizados.
func HostMatchesDomain(host, domain string) bool {
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
