package diff

import "strings"

// FilePatch is one file's section of a multi-file patch.
type FilePatch struct {
	// Path is the new path, or the old path when the file was deleted.
	Path string
	// OldPath is the pre-image path; empty for added files.
	OldPath string
	// Hunks is the text from the first "@@" header to the end of the section.
	// Binary and mode-only changes have no hunks.
	Hunks string
}

const (
	gitHeader = "diff --git "
	devNull   = "/dev/null"
)

// Split breaks a "diff --git" patch into per-file sections in emission order.
func Split(patch string) []FilePatch {
	var (
		files   []FilePatch
		current *FilePatch
		hunks   []string
	)

	flush := func() {
		if current == nil {
			return
		}
		if len(hunks) > 0 {
			current.Hunks = strings.Join(hunks, "\n")
		}
		files = append(files, *current)
		current, hunks = nil, nil
	}

	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, gitHeader) {
			flush()
			current = &FilePatch{}
			current.OldPath, current.Path = headerPaths(strings.TrimPrefix(line, gitHeader))
			continue
		}
		if current == nil {
			continue
		}

		if hunks != nil || strings.HasPrefix(line, "@@") {
			hunks = append(hunks, line)
			continue
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			current.OldPath = stripSide(strings.TrimPrefix(line, "--- "), "a/")
		case strings.HasPrefix(line, "+++ "):
			newPath := stripSide(strings.TrimPrefix(line, "+++ "), "b/")
			if newPath == "" {
				current.Path = current.OldPath
			} else {
				current.Path = newPath
			}
		}
	}
	flush()

	for i := range files {
		if strings.HasSuffix(files[i].Hunks, "\n") {
			continue
		}
		if files[i].Hunks != "" {
			files[i].Hunks += "\n"
		}
	}
	return files
}

// headerPaths extracts the paths from "a/<old> b/<new>". Paths containing
// " b/" are ambiguous here; the "---"/"+++" lines override these values when
// present.
func headerPaths(rest string) (string, string) {
	idx := strings.LastIndex(rest, " b/")
	if idx < 0 {
		return "", strings.TrimSpace(rest)
	}
	return strings.TrimPrefix(rest[:idx], "a/"), rest[idx+len(" b/"):]
}

func stripSide(path, prefix string) string {
	path = strings.TrimSuffix(path, "\t")
	if path == devNull {
		return ""
	}
	return strings.TrimPrefix(path, prefix)
}
