package app

import (
	"context"
	"encoding/json"

	"github.com/petervdpas/codestudio/internal/viewer"
	"github.com/petervdpas/codestudio/internal/workspace"
)

type idParams struct {
	ID workspace.FileID `json:"id"`
}

type nameParams struct {
	Name string `json:"name"`
}

// fileResult answers commands that may create or select a file.
type fileResult struct {
	OK   bool                  `json:"ok"`
	File *workspace.FileRecord `json:"file,omitempty"`
}

func fileReply(f workspace.FileRecord, ok bool) fileResult {
	if !ok {
		return fileResult{}
	}
	return fileResult{OK: true, File: &f}
}

type okResult struct {
	OK bool `json:"ok"`
}

// RegisterRPC binds the shell's command surface to hub methods.
func RegisterRPC(h *viewer.Hub, s *Shell) {
	withID := func(fn func(workspace.FileID) bool) viewer.HandlerFunc {
		return func(_ context.Context, raw json.RawMessage) (any, error) {
			var p idParams
			if err := viewer.DecodeParams(raw, &p); err != nil {
				return nil, err
			}
			return okResult{OK: fn(p.ID)}, nil
		}
	}

	h.Handle("state", func(context.Context, json.RawMessage) (any, error) {
		return s.Snapshot(), nil
	})

	h.Handle("newFile", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p nameParams
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return fileReply(s.NewFile(p.Name)), nil
	})

	h.Handle("save", func(context.Context, json.RawMessage) (any, error) {
		return fileReply(s.Save()), nil
	})

	h.Handle("run", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.Run(ctx), nil
	})

	h.Handle("rename", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p struct {
			ID   workspace.FileID `json:"id"`
			Name string           `json:"name"`
		}
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return okResult{OK: s.Rename(p.ID, p.Name)}, nil
	})

	h.Handle("delete", withID(s.Delete))
	h.Handle("closeTab", withID(s.CloseTab))
	h.Handle("select", withID(s.Select))

	h.Handle("duplicate", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p idParams
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return fileReply(s.Duplicate(p.ID)), nil
	})

	h.Handle("openRecent", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p nameParams
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return fileReply(s.OpenRecent(p.Name)), nil
	})

	h.Handle("edit", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p struct {
			Version uint64 `json:"version"`
			Text    string `json:"text"`
		}
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return okResult{OK: s.Edit(p.Version, p.Text)}, nil
	})

	h.Handle("cursor", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p workspace.Position
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		s.Cursor(p)
		return okResult{OK: true}, nil
	})

	h.Handle("selection", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p workspace.Selection
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		s.Selection(p)
		return okResult{OK: true}, nil
	})

	h.Handle("switchPanel", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p struct {
			Panel string `json:"panel"`
		}
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return okResult{OK: s.SwitchPanel(p.Panel)}, nil
	})

	h.Handle("toggleAssistant", func(context.Context, json.RawMessage) (any, error) {
		return map[string]bool{"collapsed": s.ToggleAssistant()}, nil
	})

	h.Handle("resize", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p struct {
			Handle string `json:"handle"`
			X      int    `json:"x"`
			Y      int    `json:"y"`
			VW     int    `json:"vw"`
			VH     int    `json:"vh"`
		}
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return okResult{OK: s.Resize(p.Handle, p.X, p.Y, p.VW, p.VH)}, nil
	})

	h.Handle("sendChat", func(_ context.Context, raw json.RawMessage) (any, error) {
		var p struct {
			Text string `json:"text"`
		}
		if err := viewer.DecodeParams(raw, &p); err != nil {
			return nil, err
		}
		return okResult{OK: s.SendChat(p.Text)}, nil
	})

	h.Handle("runGuide", func(context.Context, json.RawMessage) (any, error) {
		s.RunGuide()
		return okResult{OK: true}, nil
	})

	h.Handle("clearOutput", func(context.Context, json.RawMessage) (any, error) {
		s.ClearOutput()
		return okResult{OK: true}, nil
	})
}
