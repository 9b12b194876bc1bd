package bus

import (
	"fmt"
	"regexp"
	"strings"
)

// stripBraces returns the regex body between '{' and '}'. A value missing
// either delimiter is returned unchanged rather than rejected, so an
// authoring mistake in a default degrades instead of crashing the bot.
func stripBraces(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s[1 : len(s)-1]
	}
	return s
}

// subPattern picks the capture sub-pattern for one text parameter. A regex
// parameter brings its own body via its default value; a variadic parameter
// swallows the remainder; everything else matches a single
// whitespace-delimited token.
func subPattern(p Parameter) string {
	if p.regexParam() {
		return stripBraces(p.Default)
	}
	if p.Variadic {
		return `.+`
	}
	return `\S+`
}

// ArgsPattern synthesizes the matching pattern for one command invocation:
// the invoked name (which may be an alias), an optional @botname suffix, then
// one optional named group per non-injectable parameter in declaration
// order, separated by optional whitespace. Matching is case-insensitive and
// dot matches newlines, so multi-line messages parse the same as single-line
// ones.
func ArgsPattern(name string, params []Parameter) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?is)^/`)
	b.WriteString(regexp.QuoteMeta(name))
	b.WriteString(`(?:@\w+)?`)
	for _, p := range params {
		if p.Injectable {
			continue
		}
		b.WriteString(`(?:\s+)?`)
		fmt.Fprintf(&b, `(?P<%s>%s)?`, p.Name, subPattern(p))
	}
	return regexp.Compile(b.String())
}

// matchArgs applies a synthesized pattern to the command's text slice and
// collects named captures. Declared regex parameters that did not match stay
// visible as explicit nils, which keeps "optional regex parameter not
// supplied" distinguishable from "parameter simply omitted" in the
// required-parameter check.
func matchArgs(pat *regexp.Regexp, params []Parameter, text string) ParsedArgs {
	args := make(ParsedArgs)
	if m := pat.FindStringSubmatch(text); m != nil {
		for i, name := range pat.SubexpNames() {
			if name == "" || m[i] == "" {
				continue
			}
			v := m[i]
			args[name] = &v
		}
	}
	for _, p := range params {
		if p.Injectable || !p.regexParam() {
			continue
		}
		if _, ok := args[p.Name]; !ok {
			args[p.Name] = nil
		}
	}
	return args
}
