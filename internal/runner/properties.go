package runner

import "strings"

// properties is the run's property set. Like Ant properties, a name is set
// once and never changes afterwards.
type properties map[string]string

func (p properties) set(name, value string) {
	if _, ok := p[name]; !ok {
		p[name] = value
	}
}

func (p properties) isSet(name string) bool {
	_, ok := p[name]
	return ok
}

// expand replaces ${name} references with property values. Unknown
// references are left as written.
func (p properties) expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	var b strings.Builder
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], '}')
		if end < 0 {
			break
		}
		end += start
		b.WriteString(s[:start])
		if v, ok := p[s[start+2:end]]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	b.WriteString(s)
	return b.String()
}

func (p properties) expandAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = p.expand(v)
	}
	return out
}
