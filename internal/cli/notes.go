package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/models"
)

func (a *App) listNotes(ctx context.Context, filter models.NoteFilter) error {
	return a.withService(ctx, func(s DataService) error {
		notes, err := s.Notes(ctx, filter)
		if err != nil {
			a.println("Could not load notes, try again later.")
			return err
		}
		printNotes(a.out, notes)
		return nil
	})
}

func (a *App) List(ctx context.Context) error {
	return a.listNotes(ctx, models.NoteFilter{})
}

func (a *App) Mine(ctx context.Context) error {
	return a.listNotes(ctx, models.ByAuthor(a.userID))
}

func (a *App) Search(ctx context.Context, term string) error {
	if term == "" {
		var err error
		if term, err = GetSimpleText(a.reader, "Search by title or author", a.out); err != nil {
			return err
		}
	}
	return a.listNotes(ctx, models.NoteFilter{Search: term})
}

// askID parses arg or prompts for an id when arg is empty.
func (a *App) askID(arg string) (int64, error) {
	if arg == "" {
		var err error
		if arg, err = GetSimpleText(a.reader, "Enter note id", a.out); err != nil {
			return 0, err
		}
	}
	id, err := ParseID(arg)
	if err != nil {
		a.println(err.Error())
		return 0, err
	}
	return id, nil
}

func (a *App) Show(ctx context.Context, arg string) error {
	id, err := a.askID(arg)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		n, err := s.Note(ctx, id)
		if err != nil {
			a.println("Note not found.")
			return err
		}
		printNote(a.out, n)
		return nil
	})
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		res := s.SaveNote(ctx, 0, a.userID, title, content)
		if err := a.report(res); err != nil {
			return err
		}
		a.println(fmt.Sprintf("Note id: %d", res.ID))
		return nil
	})
}

// Edit replaces title and content of one of the user's notes. An empty
// answer keeps the current value.
func (a *App) Edit(ctx context.Context, arg string) error {
	id, err := a.askID(arg)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		cur, err := s.Note(ctx, id)
		if err != nil {
			a.println("Note not found.")
			return err
		}
		if cur.AuthorID != a.userID {
			a.println("You can only edit your own notes.")
			return common.ErrorNotFound
		}

		title, err := GetSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
		if err != nil {
			return err
		}
		if title == "" {
			title = cur.Title
		}
		content, err := GetMultiline(a.reader, "Content (empty keeps current)", a.out)
		if err != nil {
			return err
		}
		if content == "" {
			content = cur.Content
		}
		return a.report(s.SaveNote(ctx, id, a.userID, title, content))
	})
}

func (a *App) Delete(ctx context.Context, arg string) error {
	id, err := a.askID(arg)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		return a.report(s.DeleteNote(ctx, id, a.userID))
	})
}

func (a *App) Audit(ctx context.Context) error {
	return a.withService(ctx, func(s DataService) error {
		rec, err := s.LastAudit(ctx, a.userID)
		if err != nil {
			a.println("No recorded note activity.")
			return err
		}
		a.println(fmt.Sprintf("Last action: %s note #%d at %s", rec.Action, rec.NoteID, rec.Time.Format("2006-01-02 15:04:05")))
		return nil
	})
}

func (a *App) Export(ctx context.Context) error {
	return a.withService(ctx, func(s DataService) error {
		res := s.ExportNotes(ctx, a.userID)
		if !res.Success {
			return a.report(res)
		}
		a.println("Exported to", res.Message)
		return nil
	})
}

func (a *App) Exports(ctx context.Context) error {
	return a.withService(ctx, func(s DataService) error {
		keys, err := s.Exports(ctx, a.userID)
		if err != nil {
			a.println("Could not list exports.")
			return err
		}
		if len(keys) == 0 {
			a.println("No exports yet.")
		}
		for _, k := range keys {
			a.println(k)
		}
		return nil
	})
}

// askKey returns arg or prompts for an export key when arg is empty.
func (a *App) askKey(arg string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	return GetSimpleText(a.reader, "Enter export key", a.out)
}

func (a *App) ShowExport(ctx context.Context, arg string) error {
	key, err := a.askKey(arg)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		doc, err := s.Export(ctx, a.userID, key)
		if err != nil {
			a.println("Export not found.")
			return err
		}
		a.println(fmt.Sprintf("Exported %s, %d note(s):", doc.ExportedAt.Format("2006-01-02 15:04:05"), len(doc.Notes)))
		for _, n := range doc.Notes {
			a.println(fmt.Sprintf("#%-5d %s", n.ID, n.Title))
		}
		return nil
	})
}

func (a *App) PruneExport(ctx context.Context, arg string) error {
	key, err := a.askKey(arg)
	if err != nil {
		return err
	}
	return a.withService(ctx, func(s DataService) error {
		return a.report(s.DeleteExport(ctx, a.userID, key))
	})
}
