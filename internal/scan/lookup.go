package scan

// Lookup resolves a session ID or ID prefix against the discovered files.
// The result is explicitly three-way so callers can enumerate ambiguous
// candidates without re-scanning; it never falls through to a default pick.
type Lookup struct {
	File       *SessionFile  // unique match, nil otherwise
	Candidates []SessionFile // all prefix matches when ambiguous
}

// Found reports whether the lookup resolved to exactly one session.
func (l Lookup) Found() bool { return l.File != nil }

// Ambiguous reports whether more than one session matched the prefix.
func (l Lookup) Ambiguous() bool { return len(l.Candidates) > 1 }

// FindSession matches query against session IDs: an exact match wins, then
// a unique prefix match; multiple prefix matches are returned as candidates.
func FindSession(files []SessionFile, query string) Lookup {
	for i := range files {
		if files[i].SessionID == query {
			return Lookup{File: &files[i]}
		}
	}

	var matches []SessionFile
	for i := range files {
		if len(files[i].SessionID) >= len(query) && files[i].SessionID[:len(query)] == query {
			matches = append(matches, files[i])
		}
	}

	switch len(matches) {
	case 0:
		return Lookup{}
	case 1:
		return Lookup{File: &matches[0]}
	default:
		return Lookup{Candidates: matches}
	}
}
