package webcache

import (
	"net/url"
	"sort"
	"strings"
)

// CacheKey builds the request identity a cached response is stored
// under: uppercase method plus the normalized URL. Normalization drops
// the fragment, lowercases scheme and host, and sorts query parameters
// so that logically identical requests share one entry.
func CacheKey(method string, u *url.URL) string {
	n := *u
	n.Fragment = ""
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)

	if n.RawQuery != "" {
		q := n.Query()
		keys := make([]string, 0, len(q))
		for k := range q {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, k := range keys {
			vals := q[k]
			sort.Strings(vals)
			for _, v := range vals {
				if b.Len() > 0 {
					b.WriteByte('&')
				}
				b.WriteString(url.QueryEscape(k))
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(v))
			}
		}
		n.RawQuery = b.String()
	}

	return strings.ToUpper(method) + " " + n.String()
}
