package workspace

import "github.com/petervdpas/codestudio/internal/lang"

// StatusBar is the status line shown under the editor.
type StatusBar struct {
	Cursor    string `json:"cursor"`
	Selection string `json:"selection"`
	Language  string `json:"language"`
}

// Tab is one entry of the tab bar.
type Tab struct {
	ID       FileID `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Dirty    bool   `json:"dirty"`
	Active   bool   `json:"active"`
	Closable bool   `json:"closable"`
}

// TreeItem is one entry of the file tree.
type TreeItem struct {
	ID        FileID `json:"id"`
	Name      string `json:"name"`
	Label     string `json:"label"`
	Extension string `json:"extension"`
	Active    bool   `json:"active"`
}

// View is everything the tab bar, file tree and status bar show.
type View struct {
	Tabs    []Tab      `json:"tabs"`
	Tree    []TreeItem `json:"tree"`
	Active  FileID     `json:"active"`
	Welcome bool       `json:"welcome"`
	Empty   bool       `json:"empty"`
	Status  StatusBar  `json:"status"`
}

// dirtyMark is appended to labels of modified files.
const dirtyMark = " •"

// Derive builds the view for files (in display order) and the active id.
// It has no side effects.
func Derive(files []FileRecord, active FileID, status StatusBar) View {
	v := View{
		Tabs:    make([]Tab, 0, len(files)),
		Tree:    make([]TreeItem, 0, len(files)),
		Welcome: true,
		Empty:   len(files) == 0,
	}

	for _, f := range files {
		label := f.Name
		if f.Modified {
			label += dirtyMark
		}
		isActive := active != 0 && f.ID == active
		if isActive {
			v.Active = f.ID
			v.Welcome = false
		}

		v.Tabs = append(v.Tabs, Tab{
			ID:       f.ID,
			Name:     f.Name,
			Label:    label,
			Dirty:    f.Modified,
			Active:   isActive,
			Closable: true,
		})
		v.Tree = append(v.Tree, TreeItem{
			ID:        f.ID,
			Name:      f.Name,
			Label:     label,
			Extension: lang.Extension(f.Name),
			Active:    isActive,
		})
	}

	if v.Welcome {
		v.Status = StatusBar{}
	} else {
		v.Status = status
	}
	return v
}
