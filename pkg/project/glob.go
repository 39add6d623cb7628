package project

import (
	"path"
	"strings"
)

// MatchGlob reports whether the slash-separated relative path p matches
// pattern. The pattern is anchored at the right: each of its segments must
// match the corresponding trailing segment of p, so "*.mzML" matches
// "a/b/x.mzML" and "peak/*" matches "data/peak/x.mzML" but not "peak".
// An empty pattern matches everything.
func MatchGlob(pattern, p string) bool {
	if pattern == "" {
		return true
	}
	pattern = strings.Trim(pattern, "/")
	pat := strings.Split(pattern, "/")
	segs := strings.Split(strings.Trim(p, "/"), "/")
	if len(pat) > len(segs) {
		return false
	}
	segs = segs[len(segs)-len(pat):]
	for i, seg := range pat {
		ok, err := path.Match(seg, segs[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

func filterGlob(paths []string, pattern string) []string {
	out := []string{}
	for _, p := range paths {
		if MatchGlob(pattern, p) {
			out = append(out, p)
		}
	}
	return out
}

func isGlob(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
