package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/client/models"
)

// Save collects a title, the note text and an item password, then stores the
// sealed note.
func (a *App) Save(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	text, err := getMultiline(a.reader, "Enter note text", a.out)
	if err != nil {
		return err
	}

	password, err := getNewPassword(a.out, "Enter item password")
	if err != nil {
		return err
	}
	defer wipe(password)

	item, err := a.itemService.Save(ctx, title, models.Note{Text: text}, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s\n", item.ID)
	return nil
}

// Edit opens an item with its password, then replaces the title and text.
// Empty answers keep the current values; the item password stays the same
// unless a new one is given.
func (a *App) Edit(ctx context.Context, id string) error {
	password, err := getPassword(a.out, "Enter item password")
	if err != nil {
		return err
	}
	defer wipe(password)

	item, note, err := a.itemService.Open(ctx, id, password)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Enter title (empty keeps %q)", item.Title), a.out)
	if err != nil {
		return err
	}
	if title == "" {
		title = item.Title
	}

	text, err := getMultiline(a.reader, "Enter note text (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		text = note.Text
	}

	newPassword, err := getPassword(a.out, "Enter new item password (empty keeps the current one)")
	if err != nil {
		return err
	}
	defer wipe(newPassword)
	if len(newPassword) == 0 {
		newPassword = password
	}

	if _, err := a.itemService.Edit(ctx, id, title, models.Note{Text: text}, newPassword); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Updated")
	return nil
}

func (a *App) List(ctx context.Context) error {
	items, err := a.itemService.List(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items")
		return nil
	}

	for _, it := range items {
		fmt.Fprintf(a.out, "%s  %s  %s\n", it.ID, it.UpdatedAt.Local().Format(time.DateTime), it.Title)
	}
	return nil
}

func (a *App) Open(ctx context.Context, id string) error {
	password, err := getPassword(a.out, "Enter item password")
	if err != nil {
		return err
	}
	defer wipe(password)

	item, note, err := a.itemService.Open(ctx, id, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Title: %s\n", item.Title)
	fmt.Fprintln(a.out, strings.Repeat("-", 40))
	fmt.Fprintln(a.out, note.Text)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? Type 'yes' to confirm", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "yes") {
		return errCancelled
	}

	if err := a.itemService.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Export downloads an archive of all sealed items into the configured export
// directory.
func (a *App) Export(ctx context.Context) error {
	path, link, err := a.itemService.Export(ctx, a.config.ExportDir)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Exported %d items to %s\n", link.ItemCount, path)
	return nil
}
