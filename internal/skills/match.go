package skills

import "strings"

// FindMatches splits jobSkills into the ones covered by userSkills and the
// rest. A job skill is covered when its canonical form equals a user skill's,
// or when either contains the other. Blank skills never match. Original job
// spellings are kept.
func FindMatches(userSkills, jobSkills []string) (matched, missing []string) {
	userList := make([]string, 0, len(userSkills))
	userSet := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		n := strings.ToLower(Normalize(s))
		if n == "" {
			continue
		}
		userList = append(userList, n)
		userSet[n] = struct{}{}
	}

	for _, skill := range jobSkills {
		norm := strings.ToLower(Normalize(skill))
		if norm == "" {
			missing = append(missing, skill)
			continue
		}
		if _, ok := userSet[norm]; ok {
			matched = append(matched, skill)
			continue
		}
		fuzzy := false
		for _, u := range userList {
			if strings.Contains(u, norm) || strings.Contains(norm, u) {
				fuzzy = true
				break
			}
		}
		if fuzzy {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}
